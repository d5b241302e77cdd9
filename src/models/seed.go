package models

// SeedPortfolio returns the portfolio every new session starts with.
// A fresh copy is built on each call so callers may keep it as their own snapshot.
func SeedPortfolio() Portfolio {
	return Portfolio{
		CategoryStocks: {
			ID:   CategoryStocks,
			Name: "Ações",
			Assets: []Asset{
				{ID: "66d9ad202d185", Ticker: "SAPR4", Quantity: 14, AvgPrice: 6.70, CurrentPrice: 6.79, TotalValue: 95.06, Variation: -0.92, Profitability: 2.21, Currency: CurrencyBRL},
				{ID: "66cc977d99912", Ticker: "CMIG3", Quantity: 4, AvgPrice: 14.68, CurrentPrice: 13.92, TotalValue: 55.68, Variation: -5.64, Profitability: -5.23, Currency: CurrencyBRL},
				{ID: "66ad4109e41c8", Ticker: "WEGE3", Quantity: 1, AvgPrice: 38.00, CurrentPrice: 41.37, TotalValue: 41.37, Variation: 2.99, Profitability: 8.92, Currency: CurrencyBRL},
				{ID: "63d2c9ead34db", Ticker: "PETR4", Quantity: 1, AvgPrice: 31.76, CurrentPrice: 29.84, TotalValue: 29.84, Variation: -9.52, Profitability: -6.05, Currency: CurrencyBRL},
			},
			TotalValue:       221.95,
			Variation:        -2.70,
			Profitability:    5.62,
			TargetAllocation: 10,
		},
		CategoryFIIs: {
			ID:   CategoryFIIs,
			Name: "FIIs",
			Assets: []Asset{
				{ID: "business-and-trade-gray", Ticker: "KISU11", Quantity: 61, AvgPrice: 6.67, CurrentPrice: 6.75, TotalValue: 411.75, Variation: -3.08, Profitability: 1.27, Currency: CurrencyBRL},
			},
			TotalValue:       411.75,
			Variation:        -3.08,
			Profitability:    1.27,
			TargetAllocation: 15,
		},
		CategoryCrypto: {
			ID:   CategoryCrypto,
			Name: "Criptomoedas",
			Assets: []Asset{
				{ID: "usdc", Ticker: "USDC", Quantity: 19.52307300, AvgPrice: 5.52, CurrentPrice: 5.39, TotalValue: 105.23, Variation: -2.30, Profitability: -2.30, Currency: CurrencyBRL},
				{ID: "btc", Ticker: "BTC", Quantity: 0.00009505, AvgPrice: 591193.68, CurrentPrice: 600306.62, TotalValue: 57.06, Variation: 1.54, Profitability: 1.54, Currency: CurrencyBRL},
				{ID: "eth", Ticker: "ETH", Quantity: 0.00263959, AvgPrice: 14420.00, CurrentPrice: 21199.99, TotalValue: 55.96, Variation: 43.99, Profitability: 47.01, Currency: CurrencyBRL},
				{ID: "sol", Ticker: "SOL", Quantity: 0.02067426, AvgPrice: 817.18, CurrentPrice: 1034.27, TotalValue: 21.38, Variation: 8.87, Profitability: 26.56, Currency: CurrencyBRL},
				{ID: "ada", Ticker: "ADA", Quantity: 2.57586700, AvgPrice: 3.71, CurrentPrice: 3.52, TotalValue: 9.07, Variation: -6.38, Profitability: -5.19, Currency: CurrencyBRL},
			},
			TotalValue:       248.70,
			Variation:        7.15,
			Profitability:    20.72,
			TargetAllocation: 5,
		},
		CategoryETFs: {
			ID:   CategoryETFs,
			Name: "ETFs Nacionais",
			Assets: []Asset{
				{ID: "divo11", Ticker: "DIVO11", Quantity: 3, AvgPrice: 103.53, CurrentPrice: 106.61, TotalValue: 319.83, Variation: 2.10, Profitability: 2.97, Currency: CurrencyBRL},
			},
			TotalValue:       319.83,
			Variation:        2.10,
			Profitability:    2.97,
			TargetAllocation: 15,
		},
		CategoryETFsInt: {
			ID:   CategoryETFsInt,
			Name: "ETFs Internacionais",
			Assets: []Asset{
				{ID: "voo", Ticker: "VOO", Quantity: 0.16072953, AvgPrice: 560.70, CurrentPrice: 622.55, TotalValue: 100.06, Variation: 8.75, Profitability: 11.03, Currency: CurrencyUSD},
				{ID: "gld", Ticker: "GLD", Quantity: 0.01676452, AvgPrice: 298.18, CurrentPrice: 377.52, TotalValue: 6.33, Variation: 26.61, Profitability: 26.61, Currency: CurrencyUSD},
			},
			// Held in USD, the category total is the BRL equivalent.
			TotalValue:       573.45,
			Variation:        9.67,
			Profitability:    15.52,
			TargetAllocation: 25,
		},
		CategoryTreasury: {
			ID:   CategoryTreasury,
			Name: "Tesouro Direto",
			Assets: []Asset{
				{ID: "ipca2045", Ticker: "Tesouro IPCA+ 2045", Quantity: 0.06, AvgPrice: 4030, CurrentPrice: 4049.16, TotalValue: 242.95, Variation: 0.52, Profitability: 0.52, Currency: CurrencyBRL},
				{ID: "renda2030", Ticker: "Tesouro Renda+ 2030", Quantity: 0.11, AvgPrice: 1818.18, CurrentPrice: 1801.72, TotalValue: 198.19, Variation: -0.93, Profitability: -0.93, Currency: CurrencyBRL},
			},
			TotalValue:       441.14,
			Variation:        -0.14,
			Profitability:    -0.14,
			TargetAllocation: 10,
		},
		CategoryFixedIncome: {
			ID:   CategoryFixedIncome,
			Name: "Renda Fixa",
			Assets: []Asset{
				{ID: "cdb-sofisa", Ticker: "CDB Sofisa 110% CDI", Quantity: 1, AvgPrice: 200, CurrentPrice: 213.97, TotalValue: 213.97, Variation: 6.98, Profitability: 6.98, Currency: CurrencyBRL},
				{ID: "cdb-ouribank", Ticker: "CDB Ouribank 106% CDI", Quantity: 1, AvgPrice: 150, CurrentPrice: 151.32, TotalValue: 151.32, Variation: 0.88, Profitability: 0.88, Currency: CurrencyBRL},
			},
			TotalValue:       365.29,
			Variation:        4.37,
			Profitability:    6.54,
			TargetAllocation: 20,
		},
	}
}
