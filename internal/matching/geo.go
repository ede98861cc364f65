package matching

import (
	"math"

	"cargolink_backend/internal/models"
)

// EarthRadiusKm — радиус Земли для формулы гаверсинуса.
const EarthRadiusKm = 6371.0

// HaversineKm возвращает расстояние по дуге большого круга в км
// между двумя точками (широта/долгота в градусах).
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	rad := func(d float64) float64 { return d * math.Pi / 180 }
	φ1, φ2 := rad(lat1), rad(lat2)
	Δφ := rad(lat2 - lat1)
	Δλ := rad(lon2 - lon1)
	a := math.Sin(Δφ/2)*math.Sin(Δφ/2) +
		math.Cos(φ1)*math.Cos(φ2)*math.Sin(Δλ/2)*math.Sin(Δλ/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

// MatchReason — причина гео-совпадения пары транспорт/заявка.
type MatchReason string

const (
	ReasonTransportRadius MatchReason = "by_transport_radius"
	ReasonOrderRadius     MatchReason = "by_order_radius"
	ReasonCity            MatchReason = "by_city"
	ReasonNone            MatchReason = "none"
)

// GeoResult — результат гео-проверки.
// DistanceKm = +Inf, когда расстояние вычислить нельзя
// (совпадение по городу или нет координат).
type GeoResult struct {
	Matched    bool
	Reason     MatchReason
	DistanceKm float64
}

// MatchGeo решает, совместимы ли транспорт и заявка географически.
// Проверки идут по приоритету, побеждает первая успешная:
//  1. радиус подачи транспорта накрывает точку погрузки;
//  2. радиус заявки (или дефолтный, если не задан) накрывает стоянку транспорта;
//  3. совпадение городов по нормализованной строке.
func MatchGeo(t *models.Transport, o *models.Order, defaultOrderRadiusKm float64) GeoResult {
	if !o.Matchable() {
		return GeoResult{Matched: false, Reason: ReasonNone, DistanceKm: math.Inf(1)}
	}

	nearest := math.Inf(1)
	if t.HasCoords() {
		for _, loc := range o.Locations {
			if !loc.HasCoords() {
				continue
			}
			if d := HaversineKm(*t.Lat, *t.Lon, *loc.Lat, *loc.Lon); d < nearest {
				nearest = d
			}
		}
	}

	// 1. Радиус подачи транспорта
	if t.FromRadius > 0 && nearest <= t.FromRadius {
		return GeoResult{Matched: true, Reason: ReasonTransportRadius, DistanceKm: 0}
	}

	// 2. Радиус заявки. from_radius <= 0 трактуется как "не задан":
	// легитимный нулевой радиус от незаданного неотличим, поведение
	// сохранено как в проде.
	orderRadius := o.FromRadius
	if orderRadius <= 0 {
		orderRadius = defaultOrderRadiusKm
	}
	if nearest <= orderRadius {
		return GeoResult{Matched: true, Reason: ReasonOrderRadius, DistanceKm: nearest}
	}

	// 3. Fallback по городу
	if tc := NormalizeLabel(t.City); tc != "" {
		for _, loc := range o.Locations {
			if NormalizeLabel(loc.City) == tc {
				return GeoResult{Matched: true, Reason: ReasonCity, DistanceKm: math.Inf(1)}
			}
		}
	}

	// Не совпало: ближайшее вычислимое расстояние отдаём как подсказку для UI.
	return GeoResult{Matched: false, Reason: ReasonNone, DistanceKm: nearest}
}

// TransportDateOK проверяет доступность транспорта на дату погрузки.
// Режим "постоянно" пропускает проверку целиком.
func TransportDateOK(t *models.Transport, o *models.Order) (bool, error) {
	if IsPermanentMode(t.Mode) {
		return true, nil
	}
	return DateWindowContains(o.LoadDate, t.ReadyDateFrom, t.ReadyDateTo)
}
