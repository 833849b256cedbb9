package feeds

// Registry is the curated source list: name, feed URL, region, stance,
// language. Regions carry hyphenated specializations ("USA-Tech") whose
// prefix feeds the geo-diversity grouping downstream.
func Registry() []SourceMeta {
	return []SourceMeta{
		// Canada
		{"Globe and Mail", "https://www.theglobeandmail.com/arc/outboundfeeds/rss/category/news/", "Canada", "centre", "en"},
		{"CBC News", "https://www.cbc.ca/webfeed/rss/rss-topstories", "Canada", "centre-left", "en"},
		{"National Post", "https://nationalpost.com/feed", "Canada", "centre-right", "en"},
		{"CTV News", "https://www.ctvnews.ca/rss/ctvnews-ca-top-stories-public-rss-1.822009", "Canada", "centre", "en"},
		{"Global News Canada", "https://globalnews.ca/feed/", "Canada", "centre", "en"},
		{"Canadian Underwriter", "https://www.canadianunderwriter.ca/feed/", "Canada-Insurance", "industry", "en"},

		// USA
		{"New York Times", "https://rss.nytimes.com/services/xml/rss/nyt/HomePage.xml", "USA", "centre-left", "en"},
		{"Washington Post", "https://feeds.washingtonpost.com/rss/world", "USA", "centre-left", "en"},
		{"Wall Street Journal", "https://feeds.a.dj.com/rss/RSSWorldNews.xml", "USA", "centre-right", "en"},
		{"AP News", "https://rsshub.app/apnews/topics/apf-topnews", "USA", "centre", "en"},
		{"Reuters", "https://www.reutersagency.com/feed/", "USA", "centre", "en"},
		{"NPR", "https://feeds.npr.org/1001/rss.xml", "USA", "centre-left", "en"},
		{"Fox News", "https://moxie.foxnews.com/google-publisher/latest.xml", "USA", "right", "en"},
		{"Politico", "https://www.politico.com/rss/politicopicks.xml", "USA", "centre", "en"},
		{"Reason", "https://reason.com/feed/", "USA", "libertarian", "en"},
		{"The Intercept", "https://theintercept.com/feed/?rss", "USA", "left", "en"},
		{"National Review", "https://www.nationalreview.com/feed/", "USA", "right", "en"},
		{"The Nation", "https://www.thenation.com/feed/", "USA", "left", "en"},

		// UK / Europe
		{"BBC News", "http://feeds.bbci.co.uk/news/rss.xml", "UK", "centre", "en"},
		{"The Guardian", "https://www.theguardian.com/world/rss", "UK", "centre-left", "en"},
		{"The Telegraph", "https://www.telegraph.co.uk/rss.xml", "UK", "centre-right", "en"},
		{"Financial Times", "https://www.ft.com/rss/home", "UK", "centre", "en"},
		{"DW News", "https://rss.dw.com/rdf/rss-en-all", "Germany", "centre", "en"},
		{"France 24", "https://www.france24.com/en/rss", "France", "centre", "en"},
		{"EuroNews", "https://www.euronews.com/rss", "Europe", "centre", "en"},
		{"Der Spiegel International", "https://www.spiegel.de/international/index.rss", "Germany", "centre-left", "en"},

		// Middle East
		{"Al Jazeera", "https://www.aljazeera.com/xml/rss/all.xml", "Qatar/ME", "centre", "en"},
		{"Times of Israel", "https://www.timesofisrael.com/feed/", "Israel", "centre", "en"},
		{"Arab News", "https://www.arabnews.com/rss.xml", "Saudi Arabia", "centre", "en"},
		{"Haaretz", "https://www.haaretz.com/cmlink/1.628765", "Israel", "centre-left", "en"},

		// Asia-Pacific
		{"South China Morning Post", "https://www.scmp.com/rss/91/feed", "Hong Kong", "centre", "en"},
		{"NHK World", "https://www3.nhk.or.jp/rss/news/cat0.xml", "Japan", "centre", "en"},
		{"The Straits Times", "https://www.straitstimes.com/news/world/rss.xml", "Singapore", "centre", "en"},
		{"ABC Australia", "https://www.abc.net.au/news/feed/2942460/rss.xml", "Australia", "centre", "en"},
		{"India Today", "https://www.indiatoday.in/rss/home", "India", "centre", "en"},
		{"The Hindu", "https://www.thehindu.com/feeder/default.rss", "India", "centre-left", "en"},

		// Africa / Latin America
		{"Daily Maverick", "https://www.dailymaverick.co.za/dmrss/", "South Africa", "centre-left", "en"},
		{"Nation Africa", "https://nation.africa/rss", "Kenya", "centre", "en"},
		{"Buenos Aires Herald", "https://buenosairesherald.com/feed/", "Argentina", "centre", "en"},
		{"Mexico News Daily", "https://mexiconewsdaily.com/feed/", "Mexico", "centre", "en"},

		// Tech / AI
		{"Ars Technica", "https://feeds.arstechnica.com/arstechnica/index", "USA-Tech", "centre", "en"},
		{"TechCrunch", "https://techcrunch.com/feed/", "USA-Tech", "centre", "en"},
		{"The Verge", "https://www.theverge.com/rss/index.xml", "USA-Tech", "centre", "en"},
		{"The Register", "https://www.theregister.com/headlines.atom", "UK-Tech", "centre", "en"},

		// Economics / Business
		{"Bloomberg", "https://feeds.bloomberg.com/markets/news.rss", "USA-Finance", "centre", "en"},
		{"CNBC", "https://search.cnbc.com/rs/search/combinedcms/view.xml?partnerId=wrss01&id=100003114", "USA-Finance", "centre", "en"},
		{"BNN Bloomberg Canada", "https://www.bnnbloomberg.ca/arc/outboundfeeds/rss/category/news/?outputType=xml", "Canada-Finance", "centre", "en"},

		// Climate / Health / Science
		{"Carbon Brief", "https://www.carbonbrief.org/feed", "UK-Climate", "centre", "en"},
		{"STAT News", "https://www.statnews.com/feed/", "USA-Health", "centre", "en"},
		{"Nature News", "https://www.nature.com/nature.rss", "UK-Science", "centre", "en"},
	}
}
