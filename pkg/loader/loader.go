// Package loader загружает данные FMP как документы langchaingo.
//
// Документы можно индексировать в любом vectorstores.VectorStore или
// подавать в цепочки как контекст.
package loader

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/documentloaders"
	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/textsplitter"

	"github.com/MehdiZare/langchain-fmp-data/pkg/fmp"
	"github.com/MehdiZare/langchain-fmp-data/pkg/utils"
)

// Kind - тип загружаемого документа.
type Kind string

const (
	KindProfile Kind = "profile"
	KindQuote   Kind = "quote"
	KindIncome  Kind = "income_statement"
)

// Client - подмножество *fmp.Client, нужное загрузчику.
type Client interface {
	Profile(ctx context.Context, symbol string) (*fmp.CompanyProfile, error)
	Quote(ctx context.Context, symbol string) (*fmp.Quote, error)
	IncomeStatement(ctx context.Context, symbol string, period fmp.Period, limit int) ([]fmp.IncomeStatement, error)
}

// FMPLoader - documentloaders.Loader для списка тикеров.
type FMPLoader struct {
	client  Client
	symbols []string
	kinds   []Kind
}

// New создает загрузчик. Без kinds загружаются профили компаний.
func New(client Client, symbols []string, kinds ...Kind) *FMPLoader {
	if len(kinds) == 0 {
		kinds = []Kind{KindProfile}
	}
	return &FMPLoader{client: client, symbols: symbols, kinds: kinds}
}

// Load возвращает по одному документу на пару (тикер, тип).
func (l *FMPLoader) Load(ctx context.Context) ([]schema.Document, error) {
	if len(l.symbols) == 0 {
		return nil, fmt.Errorf("at least one symbol is required")
	}

	var docs []schema.Document
	for _, symbol := range l.symbols {
		for _, kind := range l.kinds {
			doc, err := l.load(ctx, symbol, kind)
			if err != nil {
				return nil, fmt.Errorf("load %s %s: %w", kind, symbol, err)
			}
			docs = append(docs, doc)
		}
	}

	utils.Info("fmp documents loaded", "symbols", len(l.symbols), "documents", len(docs))
	return docs, nil
}

// LoadAndSplit загружает документы и режет их сплиттером.
func (l *FMPLoader) LoadAndSplit(ctx context.Context, splitter textsplitter.TextSplitter) ([]schema.Document, error) {
	docs, err := l.Load(ctx)
	if err != nil {
		return nil, err
	}
	if splitter == nil {
		splitter = textsplitter.NewRecursiveCharacter()
	}
	return textsplitter.SplitDocuments(splitter, docs)
}

func (l *FMPLoader) load(ctx context.Context, symbol string, kind Kind) (schema.Document, error) {
	meta := map[string]any{"symbol": strings.ToUpper(symbol), "kind": string(kind), "source": "fmp"}

	switch kind {
	case KindProfile:
		p, err := l.client.Profile(ctx, symbol)
		if err != nil {
			return schema.Document{}, err
		}
		var b strings.Builder
		fmt.Fprintf(&b, "%s (%s)\n", p.CompanyName, p.Symbol)
		fmt.Fprintf(&b, "Sector: %s\nIndustry: %s\nCountry: %s\nExchange: %s\n", p.Sector, p.Industry, p.Country, p.Exchange)
		if p.CEO != "" {
			fmt.Fprintf(&b, "CEO: %s\n", p.CEO)
		}
		if p.Website != "" {
			fmt.Fprintf(&b, "Website: %s\n", p.Website)
		}
		if p.Description != "" {
			fmt.Fprintf(&b, "\n%s\n", p.Description)
		}
		return schema.Document{PageContent: b.String(), Metadata: meta}, nil

	case KindQuote:
		q, err := l.client.Quote(ctx, symbol)
		if err != nil {
			return schema.Document{}, err
		}
		content := fmt.Sprintf("%s (%s) last price %.2f, change %.2f (%.2f%%), day range %.2f-%.2f, volume %.0f, market cap %.0f, P/E %.2f",
			q.Name, q.Symbol, q.Price, q.Change, q.ChangesPercentage, q.DayLow, q.DayHigh, q.Volume, q.MarketCap, q.PE)
		meta["timestamp"] = q.Timestamp
		return schema.Document{PageContent: content, Metadata: meta}, nil

	case KindIncome:
		statements, err := l.client.IncomeStatement(ctx, symbol, fmp.PeriodAnnual, 5)
		if err != nil {
			return schema.Document{}, err
		}
		var b strings.Builder
		fmt.Fprintf(&b, "Income statements for %s\n", strings.ToUpper(symbol))
		for _, s := range statements {
			fmt.Fprintf(&b, "%s %s: revenue %.0f, gross profit %.0f, operating income %.0f, net income %.0f, EPS %.2f\n",
				s.Date, s.Period, s.Revenue, s.GrossProfit, s.OperatingIncome, s.NetIncome, s.EPS)
		}
		return schema.Document{PageContent: b.String(), Metadata: meta}, nil
	}

	return schema.Document{}, fmt.Errorf("unknown document kind %q", kind)
}

var _ documentloaders.Loader = (*FMPLoader)(nil)
