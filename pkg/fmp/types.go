package fmp

// Quote - котировка в реальном времени (/quote/{symbol}).
type Quote struct {
	Symbol            string  `json:"symbol"`
	Name              string  `json:"name"`
	Price             float64 `json:"price"`
	ChangesPercentage float64 `json:"changesPercentage"`
	Change            float64 `json:"change"`
	DayLow            float64 `json:"dayLow"`
	DayHigh           float64 `json:"dayHigh"`
	YearHigh          float64 `json:"yearHigh"`
	YearLow           float64 `json:"yearLow"`
	MarketCap         float64 `json:"marketCap"`
	PriceAvg50        float64 `json:"priceAvg50"`
	PriceAvg200       float64 `json:"priceAvg200"`
	Exchange          string  `json:"exchange"`
	Volume            float64 `json:"volume"`
	AvgVolume         float64 `json:"avgVolume"`
	Open              float64 `json:"open"`
	PreviousClose     float64 `json:"previousClose"`
	EPS               float64 `json:"eps"`
	PE                float64 `json:"pe"`
	Timestamp         int64   `json:"timestamp"`
}

// CompanyProfile - профиль компании (/profile/{symbol}).
type CompanyProfile struct {
	Symbol            string  `json:"symbol"`
	CompanyName       string  `json:"companyName"`
	Price             float64 `json:"price"`
	Beta              float64 `json:"beta"`
	MktCap            float64 `json:"mktCap"`
	Currency          string  `json:"currency"`
	Exchange          string  `json:"exchangeShortName"`
	Industry          string  `json:"industry"`
	Sector            string  `json:"sector"`
	Country           string  `json:"country"`
	Website           string  `json:"website"`
	Description       string  `json:"description"`
	CEO               string  `json:"ceo"`
	FullTimeEmployees string  `json:"fullTimeEmployees"`
	IPODate           string  `json:"ipoDate"`
}

// IncomeStatement - отчёт о прибылях и убытках.
type IncomeStatement struct {
	Date             string  `json:"date"`
	Symbol           string  `json:"symbol"`
	ReportedCurrency string  `json:"reportedCurrency"`
	Period           string  `json:"period"`
	Revenue          float64 `json:"revenue"`
	CostOfRevenue    float64 `json:"costOfRevenue"`
	GrossProfit      float64 `json:"grossProfit"`
	OperatingIncome  float64 `json:"operatingIncome"`
	NetIncome        float64 `json:"netIncome"`
	EBITDA           float64 `json:"ebitda"`
	EPS              float64 `json:"eps"`
	EPSDiluted       float64 `json:"epsdiluted"`
}

// BalanceSheet - балансовый отчёт.
type BalanceSheet struct {
	Date                    string  `json:"date"`
	Symbol                  string  `json:"symbol"`
	ReportedCurrency        string  `json:"reportedCurrency"`
	Period                  string  `json:"period"`
	CashAndCashEquivalents  float64 `json:"cashAndCashEquivalents"`
	TotalCurrentAssets      float64 `json:"totalCurrentAssets"`
	TotalAssets             float64 `json:"totalAssets"`
	TotalCurrentLiabilities float64 `json:"totalCurrentLiabilities"`
	TotalLiabilities        float64 `json:"totalLiabilities"`
	TotalStockholdersEquity float64 `json:"totalStockholdersEquity"`
	TotalDebt               float64 `json:"totalDebt"`
	NetDebt                 float64 `json:"netDebt"`
}

// CashFlowStatement - отчёт о движении денежных средств.
type CashFlowStatement struct {
	Date                   string  `json:"date"`
	Symbol                 string  `json:"symbol"`
	ReportedCurrency       string  `json:"reportedCurrency"`
	Period                 string  `json:"period"`
	OperatingCashFlow      float64 `json:"operatingCashFlow"`
	CapitalExpenditure     float64 `json:"capitalExpenditure"`
	FreeCashFlow           float64 `json:"freeCashFlow"`
	DividendsPaid          float64 `json:"dividendsPaid"`
	NetChangeInCash        float64 `json:"netChangeInCash"`
	CommonStockRepurchased float64 `json:"commonStockRepurchased"`
}

// HistoricalPrice - дневная свеча.
type HistoricalPrice struct {
	Date          string  `json:"date"`
	Open          float64 `json:"open"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Close         float64 `json:"close"`
	AdjClose      float64 `json:"adjClose"`
	Volume        float64 `json:"volume"`
	ChangePercent float64 `json:"changePercent"`
}

// HistoricalPrices - ответ /historical-price-full/{symbol}.
type HistoricalPrices struct {
	Symbol     string            `json:"symbol"`
	Historical []HistoricalPrice `json:"historical"`
}

// SymbolMatch - результат поиска тикера.
type SymbolMatch struct {
	Symbol            string `json:"symbol"`
	Name              string `json:"name"`
	Currency          string `json:"currency"`
	StockExchange     string `json:"stockExchange"`
	ExchangeShortName string `json:"exchangeShortName"`
}

// MarketMover - элемент списков gainers/losers/actives.
type MarketMover struct {
	Symbol            string  `json:"symbol"`
	Name              string  `json:"name"`
	Change            float64 `json:"change"`
	Price             float64 `json:"price"`
	ChangesPercentage float64 `json:"changesPercentage"`
}

// KeyMetrics - ключевые мультипликаторы.
type KeyMetrics struct {
	Date              string  `json:"date"`
	Symbol            string  `json:"symbol"`
	Period            string  `json:"period"`
	RevenuePerShare   float64 `json:"revenuePerShare"`
	NetIncomePerShare float64 `json:"netIncomePerShare"`
	MarketCap         float64 `json:"marketCap"`
	PERatio           float64 `json:"peRatio"`
	PBRatio           float64 `json:"pbRatio"`
	DebtToEquity      float64 `json:"debtToEquity"`
	CurrentRatio      float64 `json:"currentRatio"`
	DividendYield     float64 `json:"dividendYield"`
	ROE               float64 `json:"roe"`
}

// NewsArticle - новость по тикеру.
type NewsArticle struct {
	Symbol        string `json:"symbol"`
	PublishedDate string `json:"publishedDate"`
	Title         string `json:"title"`
	Text          string `json:"text"`
	Site          string `json:"site"`
	URL           string `json:"url"`
}

// Period - периодичность финансовой отчётности.
type Period string

const (
	PeriodAnnual  Period = "annual"
	PeriodQuarter Period = "quarter"
)

// MoverKind - тип списка движений рынка.
type MoverKind string

const (
	MoverGainers MoverKind = "gainers"
	MoverLosers  MoverKind = "losers"
	MoverActives MoverKind = "actives"
)
