package mediaurl

import (
	"net/url"
	"strings"
)

// DefaultProxyBase - путь same-origin relay-эндпоинта, через который
// отдаются изображения (обход cross-origin ограничений при рендере).
const DefaultProxyBase = "/api/image-proxy"

// ProxyCodec оборачивает/разворачивает URL изображений за прокси-эндпоинтом.
// Wrap идемпотентен (уже обёрнутый URL не оборачивается повторно);
// Unwrap обрабатывает двойную обёртку из legacy-данных за один вызов.
type ProxyCodec struct {
	base string
}

// NewProxyCodec создает кодек для заданного базового пути прокси.
// Пустая база заменяется на DefaultProxyBase.
func NewProxyCodec(base string) ProxyCodec {
	if base == "" {
		base = DefaultProxyBase
	}
	return ProxyCodec{base: base}
}

// IsWrapped сообщает, выглядит ли URL как уже обёрнутый этим прокси.
func (c ProxyCodec) IsWrapped(u string) bool {
	return strings.HasPrefix(u, c.base+"?") && strings.Contains(u, "url=")
}

// Wrap оборачивает URL изображения ровно один раз: {base}?url={urlEncode(u)}.
// Пустые и уже обёрнутые значения возвращаются без изменений.
func (c ProxyCodec) Wrap(u string) string {
	if u == "" || c.IsWrapped(u) {
		return u
	}
	return c.base + "?url=" + url.QueryEscape(u)
}

// Unwrap возвращает исходный URL, снимая обёртку прокси. Legacy-данные могут
// быть обёрнуты дважды - в этом случае внутреннее значение декодируется ещё
// раз, так что один вызов Unwrap всегда возвращает чистый исходный URL:
// unwrap(unwrap(x)) == unwrap(x).
func (c ProxyCodec) Unwrap(u string) string {
	inner, ok := c.unwrapOnce(u)
	if !ok {
		return u
	}
	if inner2, ok := c.unwrapOnce(inner); ok {
		return inner2
	}
	return inner
}

// Normalize - чистая миграционная функция, применяемая при загрузке и
// сохранении: любое входное значение (сырое, обёрнутое, двойная обёртка)
// приводится к ровно одной обёртке.
func (c ProxyCodec) Normalize(u string) string {
	return c.Wrap(c.Unwrap(u))
}

func (c ProxyCodec) unwrapOnce(u string) (string, bool) {
	if !c.IsWrapped(u) {
		return "", false
	}
	parsed, err := url.Parse(u)
	if err != nil {
		return "", false
	}
	inner := parsed.Query().Get("url")
	if inner == "" {
		return "", false
	}
	return inner, true
}
