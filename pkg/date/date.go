// Package date modela fechas de calendario (sin hora ni zona) como las usan
// gastos, ingresos, tareas y empleados.
package date

import (
	"encoding/json"
	"fmt"
	"time"
)

// Format es el formato ISO-8601 con el que se escriben las fechas.
const Format = "2006-01-02"

// formato de lectura permisivo: acepta "2025-7-1".
const readFormat = "2006-1-2"

// Date representa un día de calendario. El valor cero es "sin fecha".
type Date struct {
	y int
	m time.Month
	d int
}

// New devuelve la fecha normalizada (New(2025, 1, 32) == 2025-02-01).
func New(year int, month time.Month, day int) Date {
	y, m, d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Date()
	return Date{y, m, d}
}

// Of toma el día de t en su propia zona horaria.
func Of(t time.Time) Date { return New(t.Date()) }

// Today devuelve la fecha actual en la zona local.
func Today() Date { return Of(time.Now()) }

// Parse lee una fecha YYYY-MM-DD. También acepta un timestamp RFC 3339
// (documentos antiguos guardaban toISOString()) y se queda con el día.
func Parse(s string) (Date, error) {
	if len(s) > len(Format) {
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return Of(t), nil
		}
	}
	t, err := time.Parse(readFormat, s)
	if err != nil {
		return Date{}, fmt.Errorf("fecha inválida %q, formato esperado %q: %w", s, Format, err)
	}
	return Of(t), nil
}

// MustParse es como Parse pero entra en pánico si falla (tests y constantes).
func MustParse(s string) Date {
	d, err := Parse(s)
	if err != nil {
		panic(err.Error())
	}
	return d
}

// Time devuelve la medianoche UTC del día, representación canónica y comparable.
func (d Date) Time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

func (d Date) Year() int          { return d.y }
func (d Date) Month() time.Month  { return d.m }
func (d Date) Day() int           { return d.d }
func (d Date) IsZero() bool       { return d == Date{} }
func (d Date) Before(x Date) bool { return d.Compare(x) < 0 }
func (d Date) After(x Date) bool  { return d.Compare(x) > 0 }

// Compare devuelve -1, 0 o +1 según d sea anterior, igual o posterior a x.
func (d Date) Compare(x Date) int {
	switch {
	case d.y != x.y:
		return cmp(d.y, x.y)
	case d.m != x.m:
		return cmp(int(d.m), int(x.m))
	default:
		return cmp(d.d, x.d)
	}
}

func cmp(a, b int) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

// AddDays suma (o resta) días.
func (d Date) AddDays(n int) Date { return New(d.y, d.m, d.d+n) }

// AddMonths suma meses con la normalización de time.AddDate (31 ene + 1 mes = 3 mar).
func (d Date) AddMonths(n int) Date { return New(d.y, d.m+time.Month(n), d.d) }

// AddYears suma años.
func (d Date) AddYears(n int) Date { return New(d.y+n, d.m, d.d) }

// FirstOfMonth devuelve el día 1 del mes de d.
func (d Date) FirstOfMonth() Date { return Date{d.y, d.m, 1} }

// String formatea la fecha como YYYY-MM-DD; la fecha cero es "".
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Time().Format(Format)
}

// MarshalJSON escribe la fecha como string; la fecha cero como "".
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON acepta "", null o una fecha en los formatos de Parse.
func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("fecha: %w", err)
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
