package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"ebookstore/internal/admin-api/repository"

	"github.com/redis/go-redis/v9"
)

// SalesReport aggregates paid orders over a date range.
type SalesReport struct {
	From            time.Time          `json:"from"`
	To              time.Time          `json:"to"`
	OrderCount      int                `json:"order_count"`
	UnitsSold       int                `json:"units_sold"`
	Revenue         float64            `json:"revenue"`
	DiscountGiven   float64            `json:"discount_given"`
	ByPaymentMethod map[string]float64 `json:"by_payment_method"`
	TopBooks        []BookSales        `json:"top_books"`
}

// BookSales is one book's share of the report window.
type BookSales struct {
	BookID  string  `json:"book_id"`
	Title   string  `json:"title"`
	Units   int     `json:"units"`
	Revenue float64 `json:"revenue"`
}

const topBooksLimit = 5

type ReportService interface {
	SalesSummary(ctx context.Context, from, to time.Time) (*SalesReport, error)
}

type reportService struct {
	orders repository.OrderRepository
	rdb    *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewReportService(orders repository.OrderRepository, rdb *redis.Client, ttl time.Duration, logger *slog.Logger) ReportService {
	return &reportService{orders: orders, rdb: rdb, ttl: ttl, logger: logger}
}

func (s *reportService) SalesSummary(ctx context.Context, from, to time.Time) (*SalesReport, error) {
	key := fmt.Sprintf("report:sales:%s:%s", from.Format("2006-01-02"), to.Format("2006-01-02"))

	if cached := s.fromCache(ctx, key); cached != nil {
		return cached, nil
	}

	orders, err := s.orders.ListPaidBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}

	report := &SalesReport{
		From:            from,
		To:              to,
		OrderCount:      len(orders),
		ByPaymentMethod: make(map[string]float64),
	}

	perBook := make(map[string]*BookSales)
	for _, o := range orders {
		report.Revenue += o.Total
		report.DiscountGiven += o.Discount
		report.ByPaymentMethod[o.PaymentMethod] += o.Total

		for _, item := range o.Items {
			report.UnitsSold += item.Quantity
			bs, ok := perBook[item.BookID]
			if !ok {
				bs = &BookSales{BookID: item.BookID, Title: item.Title}
				perBook[item.BookID] = bs
			}
			bs.Units += item.Quantity
			bs.Revenue += item.Price * float64(item.Quantity)
		}
	}

	report.TopBooks = make([]BookSales, 0, len(perBook))
	for _, bs := range perBook {
		report.TopBooks = append(report.TopBooks, *bs)
	}
	sort.Slice(report.TopBooks, func(i, j int) bool {
		if report.TopBooks[i].Revenue != report.TopBooks[j].Revenue {
			return report.TopBooks[i].Revenue > report.TopBooks[j].Revenue
		}
		return report.TopBooks[i].BookID < report.TopBooks[j].BookID
	})
	if len(report.TopBooks) > topBooksLimit {
		report.TopBooks = report.TopBooks[:topBooksLimit]
	}

	s.toCache(ctx, key, report)
	return report, nil
}

func (s *reportService) fromCache(ctx context.Context, key string) *SalesReport {
	if s.rdb == nil {
		// No-op for testing/mock mode
		return nil
	}
	data, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil
	}
	var report SalesReport
	if err := json.Unmarshal(data, &report); err != nil {
		s.logger.Warn("drop malformed cached report", "key", key, "error", err)
		return nil
	}
	return &report
}

func (s *reportService) toCache(ctx context.Context, key string, report *SalesReport) {
	if s.rdb == nil {
		return
	}
	data, err := json.Marshal(report)
	if err != nil {
		s.logger.Warn("marshal report for cache", "error", err)
		return
	}
	if err := s.rdb.Set(ctx, key, data, s.ttl).Err(); err != nil {
		s.logger.Warn("cache sales report", "key", key, "error", err)
	}
}
