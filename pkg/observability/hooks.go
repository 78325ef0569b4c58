package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/femtree/pkg/domain"
)

// Hooks combines hook sets; each event is passed to every non-nil callback in order.
func Hooks(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for _, h := range sets {
		out.OnLoad = chainProject(out.OnLoad, h.OnLoad)
		out.OnSave = chainProject(out.OnSave, h.OnSave)
		out.OnMutation = chainMutation(out.OnMutation, h.OnMutation)
	}
	return out
}

func chainProject(a, b func(context.Context, *domain.ProjectEvent)) func(context.Context, *domain.ProjectEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *domain.ProjectEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}

func chainMutation(a, b func(context.Context, *domain.MutationEvent)) func(context.Context, *domain.MutationEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *domain.MutationEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}

// LogHooks logs every event at info level, failures at warn.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	project := func(ctx context.Context, e *domain.ProjectEvent) {
		if e.Err != nil {
			logger.WarnContext(ctx, string(e.Type), "project", e.Project, "duration", e.Duration, "err", e.Err)
			return
		}
		logger.InfoContext(ctx, string(e.Type), "project", e.Project, "nodes", e.Nodes, "duration", e.Duration)
	}
	return domain.LifecycleHooks{
		OnLoad: project,
		OnSave: project,
		OnMutation: func(ctx context.Context, e *domain.MutationEvent) {
			if e.Err != nil {
				logger.WarnContext(ctx, "mutation", "project", e.Project, "op", e.Op, "path", e.Path, "err", e.Err)
				return
			}
			logger.InfoContext(ctx, "mutation", "project", e.Project, "op", e.Op, "path", e.Path, "duration", e.Duration)
		},
	}
}
