// Package repository define los contratos de persistencia del subsistema de auth.
//
// Las interfaces son independientes del almacenamiento; las implementaciones
// viven en internal/store/pg (PostgreSQL vía pgx) e internal/store/memory.
//
// Convenciones:
//   - Context siempre es el primer parámetro
//   - ErrNotFound cuando el recurso no existe, ErrConflict ante violaciones de unicidad
package repository
