package internal

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/DrGermanius/ExpressWash/internal/model"
)

const (
	topCustomersLimit = 10
	recentOrdersLimit = 5
)

// Summary is cached until the next write or until SummaryTTL runs out.
func (s Service) Summary(ctx context.Context) (model.Summary, error) {
	key := s.cache.GenerateKey("summary", "all")

	cached, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Errorf("report cache read error: %s", err.Error())
	}
	if cached != "" {
		var sum model.Summary
		if err = json.Unmarshal([]byte(cached), &sum); err == nil {
			return sum, nil
		}
		s.logger.Errorf("report cache decode error: %s", err.Error())
	}

	orders, err := s.Repository.ListAll(ctx, model.OrderFilter{})
	if err != nil {
		return model.Summary{}, err
	}

	sum, err := Summarize(orders, s.settings.Pricing)
	if err != nil {
		return model.Summary{}, err
	}

	b, err := json.Marshal(sum)
	if err == nil {
		err = s.cache.Set(ctx, key, b, s.settings.SummaryTTL)
	}
	if err != nil {
		s.logger.Errorf("report cache write error: %s", err.Error())
	}

	return sum, nil
}

// Summarize aggregates orders, which are expected newest first as ListAll
// returns them.
func Summarize(orders []model.Order, p model.PricingTable) (model.Summary, error) {
	sum := model.Summary{
		TotalOrders:  len(orders),
		TopCustomers: make([]model.CustomerRevenue, 0),
		DailyRevenue: make([]model.DailyRevenue, 0),
		RecentOrders: make([]model.Order, 0),
	}

	var (
		qty       model.Quantities
		customers = make(map[string]decimal.Decimal)
		days      = make(map[string]decimal.Decimal)
	)
	for _, o := range orders {
		sum.TotalRevenue = sum.TotalRevenue.Add(o.TotalAmount)
		if o.IsCollected() {
			sum.CollectedOrders++
		} else {
			sum.PendingOrders++
		}

		qty.RegularClothesKg = qty.RegularClothesKg.Add(o.RegularClothesKg)
		qty.BlanketsKg = qty.BlanketsKg.Add(o.BlanketsKg)
		qty.WhiteClothesPieces += o.WhiteClothesPieces

		customers[o.CustomerName] = customers[o.CustomerName].Add(o.TotalAmount)
		day := o.OrderDate.Format(model.DateLayout)
		days[day] = days[day].Add(o.TotalAmount)
	}

	if len(orders) > 0 {
		sum.AverageOrderValue = sum.TotalRevenue.Div(decimal.NewFromInt(int64(len(orders))))
	}
	sum.UniqueCustomers = len(customers)

	byService, err := BillFor(qty, p)
	if err != nil {
		return model.Summary{}, err
	}
	sum.RevenueByService = byService

	for name, revenue := range customers {
		sum.TopCustomers = append(sum.TopCustomers, model.CustomerRevenue{CustomerName: name, Revenue: revenue})
	}
	sort.Slice(sum.TopCustomers, func(i, j int) bool {
		a, b := sum.TopCustomers[i], sum.TopCustomers[j]
		if !a.Revenue.Equal(b.Revenue) {
			return a.Revenue.GreaterThan(b.Revenue)
		}
		return a.CustomerName < b.CustomerName
	})
	if len(sum.TopCustomers) > topCustomersLimit {
		sum.TopCustomers = sum.TopCustomers[:topCustomersLimit]
	}

	for day, revenue := range days {
		sum.DailyRevenue = append(sum.DailyRevenue, model.DailyRevenue{Date: day, Revenue: revenue})
	}
	sort.Slice(sum.DailyRevenue, func(i, j int) bool {
		return sum.DailyRevenue[i].Date < sum.DailyRevenue[j].Date
	})

	if len(orders) > recentOrdersLimit {
		sum.RecentOrders = append(sum.RecentOrders, orders[:recentOrdersLimit]...)
	} else {
		sum.RecentOrders = append(sum.RecentOrders, orders...)
	}

	return sum, nil
}
