package entity

// BBox — ограничивающий прямоугольник в выходных единицах (мм).
type BBox struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// DxfMetrics — сводные метрики готового чертежа.
// Считаются заново при каждом запросе, напрямую из файла.
type DxfMetrics struct {
	NumEntities    int            `json:"num_entities"`
	EntitiesByType map[string]int `json:"entities_by_type"`
	Layers         map[string]int `json:"layers"`
	BBox           BBox           `json:"bbox_mm"`
}
