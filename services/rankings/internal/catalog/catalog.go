// Package catalog is the static table of platforms, the categories each one
// publishes, and the upstream section every category maps to.
package catalog

import (
	"fmt"
	"strings"
)

type Platform int

const (
	Netflix Platform = iota + 1
	AmazonPrime
	AppleTV
	ITunes
	Google
	Zee5
)

type Category int

const (
	Movies Category = iota + 1
	TVShows
	Overall
)

type platformInfo struct {
	slug       string
	categories []Category
}

type categoryInfo struct {
	slug    string
	section string
}

// Table order is the order of Pairs() and of the aggregate report.
var platforms = [...]platformInfo{
	Netflix:     {slug: "netflix", categories: []Category{Movies, TVShows}},
	AmazonPrime: {slug: "amazon-prime", categories: []Category{Movies, TVShows, Overall}},
	AppleTV:     {slug: "apple-tv", categories: []Category{Movies, TVShows}},
	ITunes:      {slug: "itunes", categories: []Category{Movies}},
	Google:      {slug: "google", categories: []Category{Movies}},
	Zee5:        {slug: "zee5", categories: []Category{Overall}},
}

var categories = [...]categoryInfo{
	Movies:  {slug: "movies", section: "TOP 10 Movies"},
	TVShows: {slug: "tv-shows", section: "TOP 10 TV Shows"},
	Overall: {slug: "overall", section: "TOP 10 Overall"},
}

func (p Platform) valid() bool { return p > 0 && int(p) < len(platforms) }

func (c Category) valid() bool { return c > 0 && int(c) < len(categories) }

func (p Platform) String() string {
	if !p.valid() {
		return fmt.Sprintf("platform(%d)", int(p))
	}
	return platforms[p].slug
}

func (c Category) String() string {
	if !c.valid() {
		return fmt.Sprintf("category(%d)", int(c))
	}
	return categories[c].slug
}

// Section is the heading FlixPatrol uses for the category's table.
func (c Category) Section() string {
	if !c.valid() {
		return ""
	}
	return categories[c].section
}

// Categories lists what p publishes, in table order.
func (p Platform) Categories() []Category {
	if !p.valid() {
		return nil
	}
	return append([]Category(nil), platforms[p].categories...)
}

func (p Platform) Supports(c Category) bool {
	if !p.valid() {
		return false
	}
	for _, have := range platforms[p].categories {
		if have == c {
			return true
		}
	}
	return false
}

// Pair is one platform/category combination from the table.
type Pair struct {
	Platform Platform
	Category Category
}

func (p Pair) String() string { return p.Platform.String() + "/" + p.Category.String() }

// Platforms returns every platform in table order.
func Platforms() []Platform {
	out := make([]Platform, 0, len(platforms)-1)
	for i := 1; i < len(platforms); i++ {
		out = append(out, Platform(i))
	}
	return out
}

// Pairs returns every supported combination in table order.
func Pairs() []Pair {
	var out []Pair
	for _, p := range Platforms() {
		for _, c := range platforms[p].categories {
			out = append(out, Pair{Platform: p, Category: c})
		}
	}
	return out
}

func PlatformSlugs() []string {
	out := make([]string, 0, len(platforms)-1)
	for _, p := range Platforms() {
		out = append(out, p.String())
	}
	return out
}

func CategorySlugs() []string {
	out := make([]string, 0, len(categories)-1)
	for i := 1; i < len(categories); i++ {
		out = append(out, categories[i].slug)
	}
	return out
}

func ParsePlatform(slug string) (Platform, error) {
	s := strings.ToLower(strings.TrimSpace(slug))
	for _, p := range Platforms() {
		if platforms[p].slug == s {
			return p, nil
		}
	}
	return 0, &InvalidRequestError{
		Reason:     ReasonUnknownPlatform,
		Platform:   slug,
		Supported:  PlatformSlugs(),
		Suggestion: Suggest(s, PlatformSlugs()),
	}
}

func ParseCategory(slug string) (Category, error) {
	s := strings.ToLower(strings.TrimSpace(slug))
	for i := 1; i < len(categories); i++ {
		if categories[i].slug == s {
			return Category(i), nil
		}
	}
	return 0, &InvalidRequestError{
		Reason:     ReasonUnknownCategory,
		Category:   slug,
		Supported:  CategorySlugs(),
		Suggestion: Suggest(s, CategorySlugs()),
	}
}

// Resolve parses both slugs and checks the combination is published.
func Resolve(platformSlug, categorySlug string) (Pair, error) {
	p, err := ParsePlatform(platformSlug)
	if err != nil {
		return Pair{}, err
	}
	c, err := ParseCategory(categorySlug)
	if err != nil {
		return Pair{}, err
	}
	if err := Validate(p, c); err != nil {
		return Pair{}, err
	}
	return Pair{Platform: p, Category: c}, nil
}

// Validate rejects combinations the table does not list.
func Validate(p Platform, c Category) error {
	if !p.valid() {
		return &InvalidRequestError{Reason: ReasonUnknownPlatform, Platform: p.String(), Supported: PlatformSlugs()}
	}
	if !c.valid() {
		return &InvalidRequestError{Reason: ReasonUnknownCategory, Category: c.String(), Supported: CategorySlugs()}
	}
	if !p.Supports(c) {
		supported := make([]string, 0, len(platforms[p].categories))
		for _, have := range platforms[p].categories {
			supported = append(supported, have.String())
		}
		return &InvalidRequestError{
			Reason:    ReasonUnsupportedCombination,
			Platform:  p.String(),
			Category:  c.String(),
			Supported: supported,
		}
	}
	return nil
}

// ResponseKey turns a slug into the key used in aggregate payloads
// ("amazon-prime" -> "amazon_prime").
func ResponseKey(slug string) string {
	return strings.ReplaceAll(slug, "-", "_")
}

// Check verifies the table is internally consistent. Call once at startup.
func Check() error {
	seenSlugs := map[string]bool{}
	for _, p := range Platforms() {
		info := platforms[p]
		if info.slug == "" {
			return fmt.Errorf("catalog: platform %d has no slug", int(p))
		}
		if seenSlugs[info.slug] {
			return fmt.Errorf("catalog: duplicate platform slug %q", info.slug)
		}
		seenSlugs[info.slug] = true
		if len(info.categories) == 0 {
			return fmt.Errorf("catalog: platform %q lists no categories", info.slug)
		}
		seenCats := map[Category]bool{}
		for _, c := range info.categories {
			if !c.valid() || c.Section() == "" {
				return fmt.Errorf("catalog: platform %q lists unknown category %d", info.slug, int(c))
			}
			if seenCats[c] {
				return fmt.Errorf("catalog: platform %q lists %q twice", info.slug, c)
			}
			seenCats[c] = true
		}
	}
	for i := 1; i < len(categories); i++ {
		if categories[i].slug == "" || categories[i].section == "" {
			return fmt.Errorf("catalog: category %d is incomplete", i)
		}
	}
	return nil
}
