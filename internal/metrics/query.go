package metrics

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/AngelCh415/marketing_analytics/internal/models"
)

// ErrInvalidQuery wraps every query parameter problem.
var ErrInvalidQuery = errors.New("invalid query")

const (
	dateLayout   = "2006-01-02"
	defaultLimit = 100
	maxLimit     = 1000
)

var validate = validator.New()

// Query is the dashboard filter shared by every view.
type Query struct {
	From      string `validate:"omitempty,datetime=2006-01-02"`
	To        string `validate:"omitempty,datetime=2006-01-02"`
	Platforms []models.Platform
	Limit     int `validate:"gte=0"`
	Offset    int `validate:"gte=0"`
}

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func csvSet(s string) []string {
	var out []string
	seen := map[string]struct{}{}
	for _, p := range strings.Split(s, ",") {
		p = norm(p)
		if _, dup := seen[p]; p == "" || dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// ParseQuery reads from, to, platforms, limit and offset. Missing values
// mean no filter; malformed ones return ErrInvalidQuery.
func ParseQuery(v url.Values) (Query, error) {
	q := Query{
		From:   strings.TrimSpace(v.Get("from")),
		To:     strings.TrimSpace(v.Get("to")),
		Limit:  atoiDef(v.Get("limit"), defaultLimit),
		Offset: atoiDef(v.Get("offset"), 0),
	}
	for _, name := range csvSet(v.Get("platforms")) {
		p, err := models.ParsePlatform(name)
		if err != nil {
			return Query{}, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
		}
		q.Platforms = append(q.Platforms, p)
	}
	if err := q.Validate(); err != nil {
		return Query{}, err
	}
	return q, nil
}

func (q Query) Validate() error {
	if err := validate.Struct(q); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%w: %s must satisfy %s", ErrInvalidQuery, strings.ToLower(fe.Field()), fe.Tag())
		}
		return fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	from, to := q.Bounds()
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return fmt.Errorf("%w: from %s is after to %s", ErrInvalidQuery, q.From, q.To)
	}
	return nil
}

// Bounds returns the parsed date range; unset ends are zero.
func (q Query) Bounds() (time.Time, time.Time) {
	from, _ := time.Parse(dateLayout, q.From)
	to, _ := time.Parse(dateLayout, q.To)
	return from, to
}

// SelectedPlatforms is the platform filter, all platforms when empty.
func (q Query) SelectedPlatforms() []models.Platform {
	if len(q.Platforms) == 0 {
		return models.Platforms
	}
	return q.Platforms
}

func atoiDef(s string, d int) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return d
	}
	return v
}

func clampLimitOffset(limit, offset, n int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = n
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset > n {
		offset = n
	}
	return limit, offset
}

func paginate[T any](rows []T, limit, offset int) []T {
	if offset >= len(rows) {
		return []T{}
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end]
}
