package services

import (
	"fmt"
	"time"

	"github.com/franciscosanchezn/pizzeria-sales-api/internal/models"
	"gorm.io/gorm"
)

// SummaryReport is the total of a user's sales over a resolved date window.
type SummaryReport struct {
	Range string    `json:"rango"`
	Total float64   `json:"total"`
	From  time.Time `json:"desde"`
	To    time.Time `json:"hasta"`
}

// TimeseriesPoint is one bucket of a bucketed sales series. Buckets with no
// sales still appear with a zero value.
type TimeseriesPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Summary ranges.
const (
	RangeToday     = "today"
	RangeYesterday = "yesterday"
	RangeWeek      = "week"
	RangeCustom    = "custom"
)

// Timeseries ranges and metrics.
const (
	SeriesWeek      = "week"
	SeriesYear      = "year"
	SeriesFiveYears = "5years"

	MetricTotal = "total"
	MetricCount = "count"
)

// ReportService aggregates committed sales across every pizzeria the user
// owns. It only reads; all invariants live in the sale aggregate.
type ReportService interface {
	Summary(userID uint, rango, inicio, fin string) (*SummaryReport, error)
	Timeseries(userID uint, rango, tipo string) ([]TimeseriesPoint, error)
}

type reportService struct {
	db *gorm.DB
}

// NewReportService creates a new instance of ReportService
func NewReportService(db *gorm.DB) ReportService {
	return &reportService{db: db}
}

// resolveWindow turns a named range into a half-open [from, to) window.
// Weeks run Monday through Sunday. Custom ranges need both bounds as
// calendar dates.
func resolveWindow(rango, inicio, fin string, now time.Time) (time.Time, time.Time, error) {
	startOfDay := func(t time.Time) time.Time {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	}

	switch rango {
	case RangeToday, "":
		from := startOfDay(now)
		return from, from.AddDate(0, 0, 1), nil
	case RangeYesterday:
		from := startOfDay(now).AddDate(0, 0, -1)
		return from, from.AddDate(0, 0, 1), nil
	case RangeWeek:
		weekday := int(now.Weekday())
		if weekday == 0 {
			weekday = 7 // Sunday closes the week
		}
		from := startOfDay(now).AddDate(0, 0, -(weekday - 1))
		return from, from.AddDate(0, 0, 7), nil
	case RangeCustom:
		from, errFrom := time.ParseInLocation("2006-01-02", inicio, now.Location())
		to, errTo := time.ParseInLocation("2006-01-02", fin, now.Location())
		if errFrom != nil || errTo != nil {
			return time.Time{}, time.Time{}, models.NewValidationError("invalid dates")
		}
		return from, to.AddDate(0, 0, 1), nil
	default:
		return time.Time{}, time.Time{}, models.NewFieldError("rango", fmt.Sprintf("unknown range %q", rango))
	}
}

// ownedSalesIn fetches the user's sales (via pizzeria ownership) within the
// window, ordered by sale timestamp.
func (s *reportService) ownedSalesIn(userID uint, from, to time.Time) ([]models.Sale, error) {
	var sales []models.Sale
	err := s.db.
		Joins("JOIN owner_assignments ON owner_assignments.pizzeria_id = sales.pizzeria_id").
		Where("owner_assignments.user_id = ?", userID).
		Where("sales.fecha >= ? AND sales.fecha < ?", from, to).
		Order("sales.fecha asc").
		Find(&sales).Error
	return sales, err
}

func (s *reportService) Summary(userID uint, rango, inicio, fin string) (*SummaryReport, error) {
	now := time.Now()
	from, to, err := resolveWindow(rango, inicio, fin, now)
	if err != nil {
		return nil, err
	}

	sales, err := s.ownedSalesIn(userID, from, to)
	if err != nil {
		return nil, err
	}

	var total float64
	for _, sale := range sales {
		total += sale.Total
	}
	if rango == "" {
		rango = RangeToday
	}
	return &SummaryReport{Range: rango, Total: total, From: from, To: to}, nil
}

func (s *reportService) Timeseries(userID uint, rango, tipo string) ([]TimeseriesPoint, error) {
	if tipo == "" {
		tipo = MetricTotal
	}
	if tipo != MetricTotal && tipo != MetricCount {
		return nil, models.NewFieldError("tipo", fmt.Sprintf("unknown metric %q", tipo))
	}

	now := time.Now()
	switch rango {
	case SeriesWeek, "":
		return s.weekSeries(userID, tipo, now)
	case SeriesYear:
		return s.yearSeries(userID, tipo, now)
	case SeriesFiveYears:
		return s.fiveYearSeries(userID, tipo, now)
	default:
		return nil, models.NewFieldError("rango", fmt.Sprintf("unknown range %q", rango))
	}
}

// metricValue accumulates either the sale total or a count of one.
func metricValue(tipo string, sale models.Sale) float64 {
	if tipo == MetricCount {
		return 1
	}
	return sale.Total
}

// weekSeries buckets the current Monday-to-Sunday week by weekday; all seven
// days appear even at zero.
func (s *reportService) weekSeries(userID uint, tipo string, now time.Time) ([]TimeseriesPoint, error) {
	from, to, err := resolveWindow(RangeWeek, "", "", now)
	if err != nil {
		return nil, err
	}
	sales, err := s.ownedSalesIn(userID, from, to)
	if err != nil {
		return nil, err
	}

	points := make([]TimeseriesPoint, 7)
	for i := range points {
		points[i].Label = from.AddDate(0, 0, i).Weekday().String()
	}
	for _, sale := range sales {
		day := int(sale.Fecha.Sub(from).Hours() / 24)
		if day >= 0 && day < 7 {
			points[day].Value += metricValue(tipo, sale)
		}
	}
	return points, nil
}

// yearSeries buckets the current calendar year by month; all twelve months
// appear even at zero.
func (s *reportService) yearSeries(userID uint, tipo string, now time.Time) ([]TimeseriesPoint, error) {
	from := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	to := from.AddDate(1, 0, 0)
	sales, err := s.ownedSalesIn(userID, from, to)
	if err != nil {
		return nil, err
	}

	points := make([]TimeseriesPoint, 12)
	for i := range points {
		points[i].Label = time.Month(i + 1).String()
	}
	for _, sale := range sales {
		points[int(sale.Fecha.Month())-1].Value += metricValue(tipo, sale)
	}
	return points, nil
}

// fiveYearSeries buckets a fixed trailing five-year window by year; every
// year of the window appears even at zero.
func (s *reportService) fiveYearSeries(userID uint, tipo string, now time.Time) ([]TimeseriesPoint, error) {
	firstYear := now.Year() - 4
	from := time.Date(firstYear, time.January, 1, 0, 0, 0, 0, now.Location())
	to := time.Date(now.Year()+1, time.January, 1, 0, 0, 0, 0, now.Location())
	sales, err := s.ownedSalesIn(userID, from, to)
	if err != nil {
		return nil, err
	}

	points := make([]TimeseriesPoint, 5)
	for i := range points {
		points[i].Label = fmt.Sprintf("%d", firstYear+i)
	}
	for _, sale := range sales {
		idx := sale.Fecha.Year() - firstYear
		if idx >= 0 && idx < 5 {
			points[idx].Value += metricValue(tipo, sale)
		}
	}
	return points, nil
}
