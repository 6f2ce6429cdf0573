package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

const timeFormat = time.RFC3339Nano

// DefaultLimit and MaxLimit bound page sizes for cursor listings.
const (
	DefaultLimit = 20
	MaxLimit     = 200
)

// Cursor marks the last row of a page ordered by (SortTime DESC, CreatedAt DESC, ID DESC).
type Cursor struct {
	SortTime  time.Time
	CreatedAt time.Time
	ID        string
}

// EncodeToken creates an opaque token from a cursor.
func EncodeToken(c Cursor) string {
	tokenStr := strings.Join([]string{c.SortTime.Format(timeFormat), c.CreatedAt.Format(timeFormat), c.ID}, "|")
	return base64.URLEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeToken parses a token produced by EncodeToken.
func DecodeToken(token string) (Cursor, error) {
	decodedBytes, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 3)
	if len(parts) != 3 {
		return Cursor{}, fmt.Errorf("invalid pagination token format (split)")
	}
	sortTime, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (sort time parse): %w", err)
	}
	createdAt, err := time.Parse(timeFormat, parts[1])
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (created_at parse): %w", err)
	}
	return Cursor{SortTime: sortTime, CreatedAt: createdAt, ID: parts[2]}, nil
}

// NormalizeLimit applies DefaultLimit and MaxLimit.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// TrimPage cuts rows fetched with limit+1 down to limit and returns the next token,
// or nil when this is the last page.
func TrimPage[T any](rows []T, limit int, cursorOf func(T) Cursor) ([]T, *string) {
	if len(rows) <= limit {
		return rows, nil
	}
	page := rows[:limit]
	token := EncodeToken(cursorOf(page[limit-1]))
	return page, &token
}
