package main

import (
	"github.com/hibiken/asynq"

	postJob "blogcms-backend/internal/domains/post/job"
	"blogcms-backend/internal/shared"
	"blogcms-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	processPost      *postJob.ProcessPostHandler
	scheduledPublish *postJob.ScheduledPublishHandler
	mediaSync        *postJob.MediaSyncHandler
	syncAudit        *postJob.SyncAuditHandler
}

// initializeHandlers creates all job handlers with their dependencies
func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		processPost:      postJob.NewProcessPostHandler(c.PostService),
		scheduledPublish: postJob.NewScheduledPublishHandler(c.PostService),
		mediaSync:        postJob.NewMediaSyncHandler(c.PostService),
		syncAudit:        postJob.NewSyncAuditHandler(c.PostService),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypePostProcess, h.processPost.ProcessTask)
	mux.HandleFunc(shared.TypeScheduledPublish, h.scheduledPublish.ProcessTask)
	mux.HandleFunc(shared.TypeMediaSync, h.mediaSync.ProcessTask)
	mux.HandleFunc(shared.TypeSyncAudit, h.syncAudit.ProcessTask)
}
