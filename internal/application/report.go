package app

import (
	"encoding/json"
	"fmt"
	"os"

	"sketch2cad/internal/domain/entity"
)

// ReportPath возвращает путь JSON-отчёта для данного DXF-файла.
func ReportPath(outputDXF string) string {
	return outputDXF + ".report.json"
}

// writeReport сохраняет отчёт рядом с DXF-файлом.
func writeReport(outputDXF string, rep entity.Report) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return os.WriteFile(ReportPath(outputDXF), data, 0o644)
}
