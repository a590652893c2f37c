package importer

import (
	"errors"
	"fmt"

	"google.golang.org/api/googleapi"
)

// ErrorKind классифицирует ошибку импорта для вызывающей стороны.
type ErrorKind string

const (
	KindInvalidInput        ErrorKind = "invalid_input"
	KindUpstreamUnavailable ErrorKind = "upstream_unavailable"
	KindQuotaExceeded       ErrorKind = "quota_exceeded"
	KindNotFound            ErrorKind = "not_found"
	KindEmpty               ErrorKind = "empty"
)

// ImportError - типизированная ошибка адаптера импорта. Существующий список
// элементов документа при любой такой ошибке остаётся нетронутым: импорт
// никогда не применяется частично.
type ImportError struct {
	Kind    ErrorKind
	Source  string // drive | youtube | youtubekids
	Message string
	Err     error
}

func (e *ImportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s import failed (%s): %s: %v", e.Source, e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s import failed (%s): %s", e.Source, e.Kind, e.Message)
}

func (e *ImportError) Unwrap() error { return e.Err }

// KindOf возвращает ErrorKind ошибки импорта, либо пустую строку.
func KindOf(err error) ErrorKind {
	var ie *ImportError
	if errors.As(err, &ie) {
		return ie.Kind
	}
	return ""
}

func newError(kind ErrorKind, source, message string, err error) *ImportError {
	return &ImportError{Kind: kind, Source: source, Message: message, Err: err}
}

// wrapUpstream переводит ошибку Google API в типизированную ошибку импорта.
// 403 (квота либо закрытый доступ) и 404 различаются от прочих сбоев.
func wrapUpstream(source string, err error) *ImportError {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case 403:
			return newError(KindQuotaExceeded, source, "api quota exceeded or access denied", err)
		case 404:
			return newError(KindNotFound, source, "requested resource not found", err)
		}
	}
	return newError(KindUpstreamUnavailable, source, "upstream api call failed", err)
}
