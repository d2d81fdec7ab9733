package container

import (
	app "sketch2cad/internal/application"
	"sketch2cad/internal/domain/port"
)

// Container собирает сервисы приложения.
type Container struct {
	Pipeline *app.PipelineService
}

// New связывает порты со службой конвейера.
func New(pre port.Preprocessor, seg port.Segmenter, tracer port.Tracer, exporter port.Exporter) *Container {
	return &Container{
		Pipeline: app.NewPipelineService(pre, seg, tracer, exporter),
	}
}
