package entity

import "time"

// StockRecord es la proyección materializada del stock de un producto
// (opcionalmente por variante). Se deriva de la secuencia de movimientos y
// se mantiene cacheada para lecturas O(1); solo el motor de movimientos la muta.
//
// Invariante: Current = Available + Reserved, los tres >= 0.
type StockRecord struct {
	ProductID string
	VariantID string // vacío si el producto no tiene variantes
	Current   int
	Available int
	Reserved  int
	Minimum   int // umbral de alerta (estoque mínimo)
	UpdatedAt time.Time
}

// Consistent verifica el invariante de la proyección.
func (s *StockRecord) Consistent() bool {
	return s.Current == s.Available+s.Reserved &&
		s.Current >= 0 && s.Available >= 0 && s.Reserved >= 0
}

// BelowMinimum indica si el disponible cayó bajo el umbral de alerta.
func (s *StockRecord) BelowMinimum() bool {
	return s.Available < s.Minimum
}

// Deficit devuelve cuántas unidades faltan para alcanzar el mínimo (0 si no falta).
func (s *StockRecord) Deficit() int {
	if d := s.Minimum - s.Available; d > 0 {
		return d
	}
	return 0
}
