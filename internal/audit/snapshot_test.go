package audit

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "exactly10!", Truncate("exactly10!", 10))
	assert.Equal(t, "abcde...", Truncate("abcdefgh", 5))

	// counts characters, not bytes
	assert.Equal(t, "样品管...", Truncate("样品管理模块", 3))
}

func TestCoerceID(t *testing.T) {
	seven := 7
	tests := []struct {
		name    string
		in      any
		want    uint
		wantErr bool
	}{
		{name: "int", in: 7, want: 7},
		{name: "int64", in: int64(8), want: 8},
		{name: "uint", in: uint(9), want: 9},
		{name: "uint32", in: uint32(10), want: 10},
		{name: "float", in: 11.0, want: 11},
		{name: "string", in: " 12 ", want: 12},
		{name: "pointer", in: &seven, want: 7},
		{name: "negative", in: -1, wantErr: true},
		{name: "fraction", in: 1.5, wantErr: true},
		{name: "not numeric", in: "abc", wantErr: true},
		{name: "nil pointer", in: (*int)(nil), wantErr: true},
		{name: "struct", in: struct{}{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CoerceID(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlaceholder(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	tests := []struct {
		name string
		in   any
		want string
	}{
		{name: "request", in: req, want: "[HttpRequest]"},
		{name: "response writer", in: rec, want: "[HttpResponse]"},
		{name: "reader", in: strings.NewReader("x"), want: "[InputStream]"},
		{name: "bytes", in: []byte("abc"), want: "[Binary: 3 bytes]"},
		{name: "buffer", in: &bytes.Buffer{}, want: "[InputStream]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := placeholder(tt.in)
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := placeholder(&widget{})
	assert.False(t, ok)
}

func TestFirstObject(t *testing.T) {
	n := 3
	obj := map[string]int{"a": 1}

	got, ok := firstObject([]any{1, "two", &n, nil, (*widget)(nil), obj, &widget{}})
	assert.True(t, ok)
	assert.Equal(t, obj, got)

	_, ok = firstObject([]any{1, "two", true, 2.5})
	assert.False(t, ok)
}

func TestWithActorKeepsRequestData(t *testing.T) {
	ctx := WithRequestInfo(context.Background(), RequestInfo{Path: "/api/orders", ClientIP: "1.2.3.4"})
	ctx = WithActor(ctx, 5, "Bob", "user")

	info, ok := RequestInfoFrom(ctx)
	assert.True(t, ok)
	assert.Equal(t, uint(5), *info.ActorID)
	assert.Equal(t, "Bob", info.ActorName)
	assert.Equal(t, "/api/orders", info.Path)
	assert.Equal(t, "1.2.3.4", info.ClientIP)

	_, ok = RequestInfoFrom(context.Background())
	assert.False(t, ok)
}

func TestRegistry_Types(t *testing.T) {
	r := NewRegistry()
	r.Register(EntityUser, LookupFunc(func(ctx context.Context, id uint) (any, error) { return nil, nil }))
	r.Register(EntityCustomer, LookupFunc(func(ctx context.Context, id uint) (any, error) { return nil, nil }))

	assert.Equal(t, []EntityType{EntityCustomer, EntityUser}, r.Types())
	_, ok := r.Lookup(EntitySample)
	assert.False(t, ok)
}
