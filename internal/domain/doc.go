// Package domain models farms, pest alerts, and the weather readings that
// drive alerting.
//
// # Data Source
//
// Readings come from the OpenWeatherMap current-weather endpoint
// (https://api.openweathermap.org/data/2.5/weather) queried with metric units.
// The fields of interest are:
//
//	main.temp      — temperature in °C, may be absent
//	main.humidity  — relative humidity in percent, may be absent
//	rain.1h        — rain accumulation over the last hour in millimeters
//
// The "rain" object is only present when there has been recent rain, and its
// shape is not guaranteed; a missing or malformed value is treated as 0 mm,
// not as absent. Temperature and humidity absence is preserved (nil pointers)
// because the rules below must not fire on fabricated zeros.
//
// # Risk Rules
//
// Pest risk is derived from fixed agronomic thresholds, evaluated in order:
//
//	Powdery mildew:      humidity > 80% and temperature in [20, 28] °C
//	Aphids:              temperature > 30 °C and humidity < 40%
//	Gray mold (Botrytis): humidity > 85% and rain > 5 mm/h
//
// Each rule fires at most once per reading. When temperature or humidity is
// absent no rule evaluates at all, regardless of rain. The evaluator is pure:
// readings in, labels out, no side effects.
//
// # Alerts
//
// When at least one rule matches, the matched labels are joined into a single
// message per farm ("Farm '<name>' potential pests: <a>; <b>") and persisted
// as one Alert row. Alerts are append-only and listed newest first.
package domain
