package handlers

import (
	"echoes-server/internal/domain"
	"echoes-server/pkg/api"
	"encoding/json"
	"fmt"
)

// TypedHandlerFunc работает с уже разобранными и проверенными данными
type TypedHandlerFunc[T any] func(ctx Context, payload T) (Result, error)

// EmptyHandlerFunc - команда без данных (END_TURN, CONTINUE)
type EmptyHandlerFunc func(ctx Context) (Result, error)

// WithPayload разбирает сообщение в T и вызывает Validate, если T его умеет.
// Поля действия лежат в корне сообщения рядом с type, поэтому разбирается сообщение целиком.
// Любая ошибка разбора оборачивает domain.ErrBadPayload.
func WithPayload[T any](handler TypedHandlerFunc[T]) HandlerFunc {
	return func(ctx Context, raw json.RawMessage) (Result, error) {
		payload, err := decode[T](raw)
		if err != nil {
			return Result{}, err
		}
		return handler(ctx, payload)
	}
}

func decode[T any](raw json.RawMessage) (T, error) {
	var payload T
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return payload, fmt.Errorf("%w: %v", domain.ErrBadPayload, err)
	}
	if v, ok := any(payload).(api.Validator); ok {
		if err := v.Validate(); err != nil {
			return payload, fmt.Errorf("%w: %v", domain.ErrBadPayload, err)
		}
	}
	return payload, nil
}

// WithEmptyPayload - данные команды не читаются
func WithEmptyPayload(handler EmptyHandlerFunc) HandlerFunc {
	return func(ctx Context, _ json.RawMessage) (Result, error) {
		return handler(ctx)
	}
}
