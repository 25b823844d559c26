package handler

import (
	"time"

	"github.com/Estar-Games/sc-customize-nft/internal/render/models"
)

type JobResponse struct {
	Name       string    `json:"name"`
	Attributes string    `json:"attributes"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

type QueueResponse struct {
	Jobs []JobResponse `json:"jobs"`
}

type URIResponse struct {
	Attributes string `json:"attributes"`
	Name       string `json:"name"`
	URI        string `json:"uri"`
}

func toJobResponse(job models.Job) JobResponse {
	return JobResponse{Name: job.Name, Attributes: job.Attributes, EnqueuedAt: job.EnqueuedAt}
}

func toQueueResponse(jobs []models.Job) *QueueResponse {
	resp := &QueueResponse{Jobs: make([]JobResponse, 0, len(jobs))}
	for _, job := range jobs {
		resp.Jobs = append(resp.Jobs, toJobResponse(job))
	}
	return resp
}
