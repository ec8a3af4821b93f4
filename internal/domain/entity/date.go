package entity

import "time"

// DateOnly trunca t a medianoche UTC. Las fechas de lote y compra se comparan por día.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DayIn devuelve la medianoche en loc del día calendario de date (ignora la zona de date).
// Convierte una fecha de DateOnly en el inicio de ese día para la zona del negocio.
func DayIn(date time.Time, loc *time.Location) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, orUTC(loc))
}

// StartOfDay devuelve la medianoche del día en que cae el instante t, visto desde loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	return DayIn(t.In(orUTC(loc)), loc)
}

// IsDateOnly indica si t es una fecha sin hora (medianoche UTC), como las que produce DateOnly.
func IsDateOnly(t time.Time) bool {
	return t.Location() == time.UTC && t.Equal(DateOnly(t))
}

func orUTC(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}
