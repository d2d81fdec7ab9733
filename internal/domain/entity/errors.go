package entity

import "errors"

// Категории ошибок конвейера. Каждая стадия заворачивает свою категорию
// через fmt.Errorf("%w: ..."), вызывающий код проверяет errors.Is.
var (
	// ErrInput — исходное изображение или маска недоступны либо нечитаемы.
	ErrInput = errors.New("input error")

	// ErrCalibration — калибровка масштаба отсутствует или неположительна.
	ErrCalibration = errors.New("calibration error")

	// ErrExternalTool — внешний трассировщик не найден, завершился с ошибкой
	// или вернул неразбираемый вывод.
	ErrExternalTool = errors.New("external tool error")

	// ErrGeometry — сегмент пути не соответствует своему виду.
	ErrGeometry = errors.New("geometry error")

	// ErrExport — неположительный масштаб или сбой записи чертежа.
	ErrExport = errors.New("export error")
)
