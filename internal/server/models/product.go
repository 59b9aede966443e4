package models

import (
	"time"

	"github.com/google/uuid"
)

// Product — товар каталога.
//
// Image хранит путь к файлу в том виде, в каком его вернул upload.DiskStore
// ("uploads/<имя>"), без привязки к абсолютному пути на диске.
type Product struct {
	ID        uuid.UUID
	Name      string
	Price     float64
	Size      string
	Image     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
