package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginationParamsValidate(t *testing.T) {
	p := &PaginationParams{Page: 0, PerPage: -3}
	p.Validate()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 15, p.PerPage)

	p = &PaginationParams{Page: 2, PerPage: 500}
	p.Validate()
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, 100, p.PerPage)
}

func TestPaginationOffset(t *testing.T) {
	p := &PaginationParams{Page: 3, PerPage: 20}
	assert.Equal(t, 40, p.Offset())
}

func TestNewPagination(t *testing.T) {
	pag := NewPagination(2, 10, 35)
	assert.Equal(t, 4, pag.TotalPages)
	assert.True(t, pag.HasNext)
	assert.True(t, pag.HasPrev)

	last := NewPagination(4, 10, 35)
	assert.False(t, last.HasNext)
}

func TestCursorRoundTrip(t *testing.T) {
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	encoded := EncodeCursor("abc-123", created)

	params := &CursorParams{Cursor: encoded}
	cursor, err := params.DecodeCursor()
	require.NoError(t, err)
	require.NotNil(t, cursor)
	assert.Equal(t, "abc-123", cursor.ID)
	assert.True(t, cursor.CreatedAt.Equal(created))
}

func TestDecodeCursorEmpty(t *testing.T) {
	params := &CursorParams{}
	cursor, err := params.DecodeCursor()
	require.NoError(t, err)
	assert.Nil(t, cursor)
}

func TestDecodeCursorInvalid(t *testing.T) {
	params := &CursorParams{Cursor: "not-base64!!"}
	_, err := params.DecodeCursor()
	assert.Error(t, err)
}

type row struct {
	id        string
	createdAt time.Time
}

func TestNewCursorPaginationDetectsMore(t *testing.T) {
	now := time.Now()
	rows := []row{
		{"a", now},
		{"b", now.Add(-time.Minute)},
		{"c", now.Add(-2 * time.Minute)},
	}

	// Fetched limit+1 rows, so there is a next page
	pag, items := NewCursorPagination(rows, 2,
		func(r row) string { return r.id },
		func(r row) time.Time { return r.createdAt },
	)
	assert.True(t, pag.HasNext)
	assert.Len(t, items, 2)
	require.NotNil(t, pag.NextCursor)

	next := &CursorParams{Cursor: *pag.NextCursor}
	cursor, err := next.DecodeCursor()
	require.NoError(t, err)
	assert.Equal(t, "b", cursor.ID)
}

func TestNewCursorPaginationLastPage(t *testing.T) {
	now := time.Now()
	rows := []row{{"a", now}}

	pag, items := NewCursorPagination(rows, 2,
		func(r row) string { return r.id },
		func(r row) time.Time { return r.createdAt },
	)
	assert.False(t, pag.HasNext)
	assert.Len(t, items, 1)
}
