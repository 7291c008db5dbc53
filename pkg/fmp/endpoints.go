package fmp

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

func normalizeSymbol(symbol string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if s == "" {
		return "", fmt.Errorf("symbol is required")
	}
	return url.PathEscape(s), nil
}

func periodParams(period Period, limit int) url.Values {
	params := url.Values{}
	if period == "" {
		period = PeriodAnnual
	}
	params.Set("period", string(period))
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	return params
}

// Quote возвращает котировку по тикеру.
func (c *Client) Quote(ctx context.Context, symbol string) (*Quote, error) {
	s, err := normalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}
	var quotes []Quote
	if err := c.Get(ctx, "quote", "/quote/"+s, nil, &quotes); err != nil {
		return nil, err
	}
	if len(quotes) == 0 {
		return nil, &APIError{Endpoint: "quote", Message: "no quote for " + s, Type: ErrNotFound}
	}
	return &quotes[0], nil
}

// Profile возвращает профиль компании.
func (c *Client) Profile(ctx context.Context, symbol string) (*CompanyProfile, error) {
	s, err := normalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}
	var profiles []CompanyProfile
	if err := c.Get(ctx, "profile", "/profile/"+s, nil, &profiles); err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, &APIError{Endpoint: "profile", Message: "no profile for " + s, Type: ErrNotFound}
	}
	return &profiles[0], nil
}

// IncomeStatement возвращает отчёты о прибылях, новые первыми.
func (c *Client) IncomeStatement(ctx context.Context, symbol string, period Period, limit int) ([]IncomeStatement, error) {
	s, err := normalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}
	var out []IncomeStatement
	if err := c.Get(ctx, "income_statement", "/income-statement/"+s, periodParams(period, limit), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// BalanceSheet возвращает балансовые отчёты.
func (c *Client) BalanceSheet(ctx context.Context, symbol string, period Period, limit int) ([]BalanceSheet, error) {
	s, err := normalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}
	var out []BalanceSheet
	if err := c.Get(ctx, "balance_sheet", "/balance-sheet-statement/"+s, periodParams(period, limit), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CashFlow возвращает отчёты о движении денежных средств.
func (c *Client) CashFlow(ctx context.Context, symbol string, period Period, limit int) ([]CashFlowStatement, error) {
	s, err := normalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}
	var out []CashFlowStatement
	if err := c.Get(ctx, "cash_flow", "/cash-flow-statement/"+s, periodParams(period, limit), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// HistoricalPrices возвращает дневные цены. from/to в формате YYYY-MM-DD, пустые значения опускаются.
func (c *Client) HistoricalPrices(ctx context.Context, symbol, from, to string) (*HistoricalPrices, error) {
	s, err := normalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}
	params := url.Values{}
	if from != "" {
		params.Set("from", from)
	}
	if to != "" {
		params.Set("to", to)
	}
	var out HistoricalPrices
	if err := c.Get(ctx, "historical_prices", "/historical-price-full/"+s, params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchSymbol ищет тикеры по названию компании или части тикера.
func (c *Client) SearchSymbol(ctx context.Context, query string, limit int, exchange string) ([]SymbolMatch, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("query is required")
	}
	params := url.Values{}
	params.Set("query", query)
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	if exchange != "" {
		params.Set("exchange", strings.ToUpper(exchange))
	}
	var out []SymbolMatch
	if err := c.Get(ctx, "search_symbol", "/search", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MarketMovers возвращает лидеров роста, падения или объёма торгов.
func (c *Client) MarketMovers(ctx context.Context, kind MoverKind) ([]MarketMover, error) {
	switch kind {
	case MoverGainers, MoverLosers, MoverActives:
	case "":
		kind = MoverGainers
	default:
		return nil, fmt.Errorf("unknown market movers kind %q (expected gainers, losers or actives)", kind)
	}
	var out []MarketMover
	if err := c.Get(ctx, "market_movers", "/stock_market/"+string(kind), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// KeyMetrics возвращает ключевые мультипликаторы компании.
func (c *Client) KeyMetrics(ctx context.Context, symbol string, period Period, limit int) ([]KeyMetrics, error) {
	s, err := normalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}
	var out []KeyMetrics
	if err := c.Get(ctx, "key_metrics", "/key-metrics/"+s, periodParams(period, limit), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// StockNews возвращает последние новости. Пустой список тикеров - общая лента.
func (c *Client) StockNews(ctx context.Context, tickers []string, limit int) ([]NewsArticle, error) {
	params := url.Values{}
	var cleaned []string
	for _, t := range tickers {
		if t = strings.ToUpper(strings.TrimSpace(t)); t != "" {
			cleaned = append(cleaned, t)
		}
	}
	if len(cleaned) > 0 {
		params.Set("tickers", strings.Join(cleaned, ","))
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	var out []NewsArticle
	if err := c.Get(ctx, "stock_news", "/stock_news", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}
