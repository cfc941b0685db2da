package classify

import id "tns/pkg/domain"

// seedVerified binds well-known token symbols to their canonical references.
// Deployments replace these with the curated production list at build time.
var seedVerified = map[string]id.TokenRef{
	"USDC": "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
	"USDT": "Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB",
	"BONK": "DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263",
	"JUP":  "JUPyiwrYJFskUPiHa7hkeR8VUtAeFoSYbKedZNsDvCN",
	"WIF":  "EKpQGSJtjMFqKZ9KQanSqYXRcF8fBopzLHYxdM65zcjm",
	"PYTH": "HZ1JovNiVvGrGNiiYvEozEVgZ58xaU3RKwX8eACQBCt3",
	"RAY":  "4k3Dyjzvzp8eMZWUXbBCjEvwSkkk59S5iCNLY3QrkX6R",
	"ORCA": "orcaEKTdK7LKz57vaAYr9QeNsVEPfiu6QeMU1kektZE",
}

// seedReserved protects listed-equity tickers until the protocol reaches its
// final phase. A small representative set; the production build embeds the
// full index membership lists.
var seedReserved = []string{
	"AAPL", "MSFT", "GOOGL", "GOOG", "AMZN", "NVDA", "META", "TSLA",
	"BRKB", "JPM", "JNJ", "V", "PG", "UNH", "XOM", "HD", "MA", "BAC",
	"ABBV", "PFE", "KO", "PEP", "COST", "DIS", "CSCO", "VZ", "ADBE",
	"WMT", "CRM", "INTC", "AMD", "NFLX", "QCOM", "TXN", "ORCL", "IBM",
	"SPY", "QQQ", "IWM", "DIA", "VTI", "VOO",
}
