package context_test

import (
	"context"
	"testing"

	"github.com/mkrupp/recipe-api/internal/domain"
	context_ "github.com/mkrupp/recipe-api/internal/infra/context"
)

func TestTraceID(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	if _, ok := context_.TraceIDFromContext(ctx); ok {
		t.Error("TraceIDFromContext() on empty context ok = true")
	}

	if _, ok := context_.TraceIDFromContext(context_.WithTraceID(ctx, "")); ok {
		t.Error("TraceIDFromContext() with empty id ok = true")
	}

	got, ok := context_.TraceIDFromContext(context_.WithTraceID(ctx, "abc"))
	if !ok || got != "abc" {
		t.Errorf("TraceIDFromContext() = %q, %v, want %q, true", got, ok, "abc")
	}
}

func TestAccount(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	if _, ok := context_.AccountFromContext(ctx); ok {
		t.Error("AccountFromContext() on empty context ok = true")
	}

	if _, ok := context_.AccountFromContext(context_.WithAccount(ctx, nil)); ok {
		t.Error("AccountFromContext() with nil account ok = true")
	}

	acc := &domain.Account{ID: 7, Email: "a@x.com"}

	got, ok := context_.AccountFromContext(context_.WithAccount(ctx, acc))
	if !ok || got.ID != 7 {
		t.Errorf("AccountFromContext() = %+v, %v, want id 7", got, ok)
	}
}
