package savedquery

import (
	"github.com/kailas-cloud/tagseek/internal/repository/filterset"
)

type savedQueryDTO struct {
	ID        string                `json:"id"`
	Name      string                `json:"name"`
	Query     string                `json:"query"`
	Filters   []filterset.FilterDTO `json:"filters"`
	Timestamp int64                 `json:"timestamp"`
}
