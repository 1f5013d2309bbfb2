package core

import (
	"math"
	"time"

	"github.com/dustin/go-humanize"
)

var relMagnitudes = []humanize.RelTimeMagnitude{
	{D: time.Second, Format: "ahora", DivBy: time.Second},
	{D: 2 * time.Second, Format: "%s 1 segundo", DivBy: 1},
	{D: time.Minute, Format: "%s %d segundos", DivBy: time.Second},
	{D: 2 * time.Minute, Format: "%s 1 minuto", DivBy: 1},
	{D: time.Hour, Format: "%s %d minutos", DivBy: time.Minute},
	{D: 2 * time.Hour, Format: "%s 1 hora", DivBy: 1},
	{D: humanize.Day, Format: "%s %d horas", DivBy: time.Hour},
	{D: 2 * humanize.Day, Format: "%s 1 día", DivBy: 1},
	{D: humanize.Week, Format: "%s %d días", DivBy: humanize.Day},
	{D: 2 * humanize.Week, Format: "%s 1 semana", DivBy: 1},
	{D: humanize.Month, Format: "%s %d semanas", DivBy: humanize.Week},
	{D: 2 * humanize.Month, Format: "%s 1 mes", DivBy: 1},
	{D: humanize.Year, Format: "%s %d meses", DivBy: humanize.Month},
	{D: 2 * humanize.Year, Format: "%s 1 año", DivBy: 1},
	{D: humanize.LongTime, Format: "%s %d años", DivBy: humanize.Year},
	{D: math.MaxInt64, Format: "%s mucho tiempo", DivBy: 1},
}

// RelTime describes t relative to now in Spanish ("hace 2 horas", "en 3 días").
func RelTime(t, now time.Time) string {
	return humanize.CustomRelTime(t, now, "hace", "en", relMagnitudes)
}

// Count formats an integer with thousands separators.
func Count(n int) string {
	return humanize.Comma(int64(n))
}
