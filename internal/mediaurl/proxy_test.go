package mediaurl

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProxyCodec_WrapIsIdempotent(t *testing.T) {
	c := NewProxyCodec("")
	raw := "https://example.com/a.png?size=large"

	wrapped := c.Wrap(raw)
	assert.Equal(t, DefaultProxyBase+"?url="+url.QueryEscape(raw), wrapped)
	assert.True(t, c.IsWrapped(wrapped))

	// Повторная обёртка ничего не меняет
	assert.Equal(t, wrapped, c.Wrap(wrapped))
}

func TestProxyCodec_WrapEmpty(t *testing.T) {
	c := NewProxyCodec("")
	assert.Equal(t, "", c.Wrap(""))
}

func TestProxyCodec_UnwrapSingle(t *testing.T) {
	c := NewProxyCodec("/api/image-proxy")
	raw := "https://drive.google.com/uc?export=view&id=ABC123xyz_9"

	assert.Equal(t, raw, c.Unwrap(c.Wrap(raw)))
}

func TestProxyCodec_UnwrapDoubleWrappedInOneCall(t *testing.T) {
	c := NewProxyCodec("/api/image-proxy")
	raw := "https://example.com/a.png"

	// Двойная обёртка из legacy-данных: вручную оборачиваем уже обёрнутое
	once := c.Wrap(raw)
	twice := c.base + "?url=" + url.QueryEscape(once)
	assert.True(t, c.IsWrapped(twice))

	assert.Equal(t, raw, c.Unwrap(twice))
	// unwrap(unwrap(x)) == unwrap(x)
	assert.Equal(t, c.Unwrap(twice), c.Unwrap(c.Unwrap(twice)))
}

func TestProxyCodec_UnwrapPassthrough(t *testing.T) {
	c := NewProxyCodec("")
	testCases := []string{
		"https://example.com/a.png",
		"",
		"/api/image-proxy",           // база без параметра
		"/api/image-proxy?other=123", // нет параметра url
	}
	for _, in := range testCases {
		assert.Equal(t, in, c.Unwrap(in), "input %q", in)
	}
}

func TestProxyCodec_Normalize(t *testing.T) {
	c := NewProxyCodec("/api/image-proxy")
	raw := "https://example.com/a.png"
	once := c.Wrap(raw)
	twice := c.base + "?url=" + url.QueryEscape(once)

	// Любое входное состояние приводится ровно к одной обёртке
	assert.Equal(t, once, c.Normalize(raw))
	assert.Equal(t, once, c.Normalize(once))
	assert.Equal(t, once, c.Normalize(twice))
	assert.Equal(t, "", c.Normalize(""))
}

func TestProxyCodec_CustomBase(t *testing.T) {
	c := NewProxyCodec("/proxy")
	raw := "https://example.com/a.png"

	wrapped := c.Wrap(raw)
	assert.Equal(t, "/proxy?url="+url.QueryEscape(raw), wrapped)

	// Чужая база не считается обёрнутой
	other := NewProxyCodec("/api/image-proxy")
	assert.False(t, other.IsWrapped(wrapped))
}
