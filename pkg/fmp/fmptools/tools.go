// Package fmptools - обёртки FMP эндпоинтов для LLM function calling.
//
// Каждый эндпоинт pkg/fmp становится отдельным tools.Tool: схема параметров
// строится из структуры аргументов, аргументы раскладываются через
// tools.DecodeArgs, результат сериализуется в JSON текст.
package fmptools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MehdiZare/langchain-fmp-data/pkg/fmp"
	"github.com/MehdiZare/langchain-fmp-data/pkg/tools"
	"github.com/MehdiZare/langchain-fmp-data/pkg/utils"
)

// Client - подмножество *fmp.Client, нужное инструментам.
type Client interface {
	Quote(ctx context.Context, symbol string) (*fmp.Quote, error)
	Profile(ctx context.Context, symbol string) (*fmp.CompanyProfile, error)
	IncomeStatement(ctx context.Context, symbol string, period fmp.Period, limit int) ([]fmp.IncomeStatement, error)
	BalanceSheet(ctx context.Context, symbol string, period fmp.Period, limit int) ([]fmp.BalanceSheet, error)
	CashFlow(ctx context.Context, symbol string, period fmp.Period, limit int) ([]fmp.CashFlowStatement, error)
	HistoricalPrices(ctx context.Context, symbol, from, to string) (*fmp.HistoricalPrices, error)
	SearchSymbol(ctx context.Context, query string, limit int, exchange string) ([]fmp.SymbolMatch, error)
	MarketMovers(ctx context.Context, kind fmp.MoverKind) ([]fmp.MarketMover, error)
	KeyMetrics(ctx context.Context, symbol string, period fmp.Period, limit int) ([]fmp.KeyMetrics, error)
	StockNews(ctx context.Context, tickers []string, limit int) ([]fmp.NewsArticle, error)
}

var _ Client = (*fmp.Client)(nil)

// endpointTool - типизированный инструмент над одним эндпоинтом.
type endpointTool[A any] struct {
	def tools.ToolDefinition
	run func(ctx context.Context, args A) (any, error)
}

func newEndpointTool[A any](name, description string, run func(ctx context.Context, args A) (any, error)) *endpointTool[A] {
	return &endpointTool[A]{
		def: tools.ToolDefinition{
			Name:        name,
			Description: description,
			Parameters:  tools.MustSchemaFor[A](),
		},
		run: run,
	}
}

// Definition возвращает определение инструмента для function calling.
func (t *endpointTool[A]) Definition() tools.ToolDefinition {
	return t.def
}

// Execute раскладывает аргументы, вызывает эндпоинт и возвращает JSON.
func (t *endpointTool[A]) Execute(ctx context.Context, args map[string]any) (string, error) {
	var a A
	if err := tools.DecodeArgs(args, &a); err != nil {
		return "", err
	}

	result, err := t.run(ctx, a)
	if err != nil {
		return "", err
	}

	data, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("marshal %s result: %w", t.def.Name, err)
	}

	utils.Debug("fmp tool executed", "tool", t.def.Name, "result", utils.Truncate(string(data), 200))
	return string(data), nil
}

type symbolArgs struct {
	Symbol string `json:"symbol" jsonschema:"required,description=Stock ticker symbol such as AAPL"`
}

type statementArgs struct {
	Symbol string `json:"symbol" jsonschema:"required,description=Stock ticker symbol such as AAPL"`
	Period string `json:"period,omitempty" jsonschema:"enum=annual,enum=quarter,description=Reporting period (default annual)"`
	Limit  int    `json:"limit,omitempty" jsonschema:"minimum=1,maximum=40,description=Number of most recent periods (default 5)"`
}

type historyArgs struct {
	Symbol string `json:"symbol" jsonschema:"required,description=Stock ticker symbol such as AAPL"`
	From   string `json:"from,omitempty" jsonschema:"description=Start date YYYY-MM-DD"`
	To     string `json:"to,omitempty" jsonschema:"description=End date YYYY-MM-DD"`
}

type searchArgs struct {
	Query    string `json:"query" jsonschema:"required,description=Company name or partial ticker"`
	Limit    int    `json:"limit,omitempty" jsonschema:"minimum=1,maximum=50,description=Max results (default 10)"`
	Exchange string `json:"exchange,omitempty" jsonschema:"description=Exchange filter such as NASDAQ or NYSE"`
}

type moversArgs struct {
	Kind string `json:"kind,omitempty" jsonschema:"enum=gainers,enum=losers,enum=actives,description=Which list to return (default gainers)"`
}

type newsArgs struct {
	Tickers []string `json:"tickers,omitempty" jsonschema:"description=Ticker symbols to filter news by"`
	Limit   int      `json:"limit,omitempty" jsonschema:"minimum=1,maximum=50,description=Max articles (default 10)"`
}

const (
	defaultStatementLimit = 5
	defaultListLimit      = 10
)

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// Catalog возвращает полный набор FMP инструментов в стабильном порядке.
func Catalog(c Client) []tools.Tool {
	return []tools.Tool{
		newEndpointTool("get_stock_quote",
			"Get the real-time stock quote for a ticker: current price, daily change and percentage, day range, 52-week range, volume, market cap, EPS and P/E ratio.",
			func(ctx context.Context, a symbolArgs) (any, error) {
				return c.Quote(ctx, a.Symbol)
			}),
		newEndpointTool("get_company_profile",
			"Get the company profile for a ticker: company name, sector, industry, country, CEO, employees, website, exchange, beta, market cap and business description.",
			func(ctx context.Context, a symbolArgs) (any, error) {
				return c.Profile(ctx, a.Symbol)
			}),
		newEndpointTool("get_income_statement",
			"Get income statements for a company: revenue, cost of revenue, gross profit, operating income, net income, EBITDA and earnings per share (EPS) by annual or quarterly period.",
			func(ctx context.Context, a statementArgs) (any, error) {
				return c.IncomeStatement(ctx, a.Symbol, fmp.Period(a.Period), orDefault(a.Limit, defaultStatementLimit))
			}),
		newEndpointTool("get_balance_sheet",
			"Get balance sheet statements for a company: cash, current assets, total assets, liabilities, stockholders equity, total debt and net debt by annual or quarterly period.",
			func(ctx context.Context, a statementArgs) (any, error) {
				return c.BalanceSheet(ctx, a.Symbol, fmp.Period(a.Period), orDefault(a.Limit, defaultStatementLimit))
			}),
		newEndpointTool("get_cash_flow_statement",
			"Get cash flow statements for a company: operating cash flow, capital expenditure, free cash flow, dividends paid and share buybacks by annual or quarterly period.",
			func(ctx context.Context, a statementArgs) (any, error) {
				return c.CashFlow(ctx, a.Symbol, fmp.Period(a.Period), orDefault(a.Limit, defaultStatementLimit))
			}),
		newEndpointTool("get_historical_prices",
			"Get historical daily stock prices for a ticker: open, high, low, close, adjusted close and volume over a date range.",
			func(ctx context.Context, a historyArgs) (any, error) {
				return c.HistoricalPrices(ctx, a.Symbol, a.From, a.To)
			}),
		newEndpointTool("search_symbol",
			"Search for stock ticker symbols by company name or partial ticker, optionally filtered by exchange.",
			func(ctx context.Context, a searchArgs) (any, error) {
				return c.SearchSymbol(ctx, a.Query, orDefault(a.Limit, defaultListLimit), a.Exchange)
			}),
		newEndpointTool("get_market_movers",
			"Get today's stock market movers: biggest gainers, biggest losers or most actively traded stocks.",
			func(ctx context.Context, a moversArgs) (any, error) {
				return c.MarketMovers(ctx, fmp.MoverKind(a.Kind))
			}),
		newEndpointTool("get_key_metrics",
			"Get key financial metrics and valuation ratios for a company: P/E ratio, price to book, debt to equity, current ratio, dividend yield, ROE and per-share values.",
			func(ctx context.Context, a statementArgs) (any, error) {
				return c.KeyMetrics(ctx, a.Symbol, fmp.Period(a.Period), orDefault(a.Limit, defaultStatementLimit))
			}),
		newEndpointTool("get_stock_news",
			"Get the latest stock market news articles, optionally filtered by ticker symbols.",
			func(ctx context.Context, a newsArgs) (any, error) {
				return c.StockNews(ctx, a.Tickers, orDefault(a.Limit, defaultListLimit))
			}),
	}
}
