// Package view derives the filtered and sorted sequence a list screen
// renders from a store's current data. Nothing here mutates its input.
package view

import (
	"net/url"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/frahmantamala/rbac-admin/internal"
)

const (
	OrderAsc  = "asc"
	OrderDesc = "desc"

	DefaultLocale = "en"
)

// Viewable exposes the string fields a view can search, filter and sort on.
type Viewable interface {
	SearchFields() []string
	Field(name string) (string, bool)
}

type Query struct {
	FilterText string
	Status     string
	SortKey    string
	Ascending  bool
	Locale     string
}

// Apply keeps items whose search fields contain FilterText (case-folded),
// whose status equals Status when set, and stable-sorts them by SortKey.
func Apply[T Viewable](items []T, q Query) []T {
	out := make([]T, 0, len(items))

	folder := cases.Fold()
	needle := folder.String(q.FilterText)

	for _, item := range items {
		if needle != "" && !matches(folder, item, needle) {
			continue
		}
		if q.Status != "" {
			status, ok := item.Field("status")
			if !ok || status != q.Status {
				continue
			}
		}
		out = append(out, item)
	}

	if q.SortKey == "" {
		return out
	}

	locale := q.Locale
	if locale == "" {
		locale = DefaultLocale
	}
	col := collate.New(language.Make(locale))

	slices.SortStableFunc(out, func(a, b T) int {
		av, _ := a.Field(q.SortKey)
		bv, _ := b.Field(q.SortKey)
		c := col.CompareString(av, bv)
		if !q.Ascending {
			return -c
		}
		return c
	})
	return out
}

func matches(folder cases.Caser, item Viewable, needle string) bool {
	for _, field := range item.SearchFields() {
		if strings.Contains(folder.String(field), needle) {
			return true
		}
	}
	return false
}

// ParseQuery reads q, status, sort and order from list endpoint parameters.
// sortable lists the accepted sort keys.
func ParseQuery(values url.Values, sortable []string) (Query, error) {
	q := Query{
		FilterText: strings.TrimSpace(values.Get("q")),
		Status:     values.Get("status"),
		SortKey:    values.Get("sort"),
		Ascending:  true,
	}

	switch strings.ToLower(values.Get("order")) {
	case "", OrderAsc:
	case OrderDesc:
		q.Ascending = false
	default:
		return Query{}, internal.NewValidationFieldError("order", "order must be one of: asc, desc", internal.ErrCodeInvalidQuery)
	}

	if err := q.Validate(sortable); err != nil {
		return Query{}, err
	}
	return q, nil
}

func (q Query) Validate(sortable []string) error {
	if q.SortKey != "" && !slices.Contains(sortable, q.SortKey) {
		return internal.NewValidationFieldError("sort",
			"sort must be one of: "+strings.Join(sortable, ", "),
			internal.ErrCodeInvalidQuery)
	}
	if q.Locale != "" {
		if _, err := language.Parse(q.Locale); err != nil {
			return internal.NewValidationFieldError("locale", "locale is invalid", internal.ErrCodeInvalidQuery)
		}
	}
	return nil
}
