// Package page assembles the pricing page: the billing cycle toggle, one card
// per plan with its own visibility detector, the document metadata, and the
// HTTP handlers that serve it as HTML and JSON.
//
// A Page owns the billing cycle. The ToggleControl and the cards only read it:
//
//	p := page.New(pricing.DefaultCatalog(), page.DefaultMetadata(), onBack)
//	p.Toggle() // annual
//	for _, card := range p.Cards() {
//		fmt.Println(card.Plan.Title, card.Pricing.PriceText())
//	}
//
// Serving:
//
//	renderer, _ := page.NewRenderer(page.RendererConfig{CacheSize: 4, CacheTTL: time.Minute})
//	handler, _ := page.NewHandler(page.HandlerConfig{Renderer: renderer, HomeURL: "/"})
//	http.ListenAndServe(":8080", handler.NewRouter())
//
// Routes:
//
//	GET  /pricing?billing=monthly|annual   HTML page
//	POST /pricing/toggle                   303 to the inverted cycle
//	GET  /pricing/back?source=header|cta   back navigation, 303 to the home URL
//	GET  /api/v1/pricing?billing=...       JSON snapshot
package page
