package estimator

import "sync"

const (
	TypeOnePage    = "onepage"
	TypeMultiPage  = "multipage"
	TypeEshopSmall = "eshop-small"
	TypeEshopLarge = "eshop-large"
	TypeWebApp     = "webapp"
)

var (
	allTypes    = []string{TypeOnePage, TypeMultiPage, TypeEshopSmall, TypeEshopLarge, TypeWebApp}
	siteTypes   = []string{TypeOnePage, TypeMultiPage, TypeEshopSmall, TypeEshopLarge}
	shopTypes   = []string{TypeEshopSmall, TypeEshopLarge}
	seoTypes    = []string{TypeMultiPage, TypeEshopSmall, TypeEshopLarge, TypeWebApp}
	secureTypes = []string{TypeEshopLarge, TypeWebApp}
	appOnly     = []string{TypeWebApp}
)

var (
	defaultCatalogOnce sync.Once
	defaultCatalog     *Catalog
)

// DefaultCatalog returns the agency's catalog. It panics if the static data
// is inconsistent.
func DefaultCatalog() *Catalog {
	defaultCatalogOnce.Do(func() {
		c, err := NewCatalog(defaultTypes(), defaultCategories(), defaultFeatures(), defaultSupportPlans())
		if err != nil {
			panic(err)
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

func defaultTypes() []WebsiteType {
	responsive := IncludedItem{Name: "Responsive Design", Icon: "smartphone"}
	ssl := IncludedItem{Name: "SSL Certificate", Icon: "lock"}
	contact := IncludedItem{Name: "Contact Form", Icon: "mail"}
	maps := IncludedItem{Name: "Google Maps", Icon: "map-pin"}
	seo := IncludedItem{Name: "Basic On-Page SEO", Icon: "search"}
	ga4 := IncludedItem{Name: "Google Analytics 4", Icon: "bar-chart-3"}
	gdpr := IncludedItem{Name: "Cookie Consent (GDPR)", Icon: "shield"}

	return []WebsiteType{
		{
			ID:               TypeOnePage,
			Name:             "One Page Site",
			Description:      "A single page with the essential sections.",
			BasePrice:        700,
			TimeEstimate:     "5-10 days",
			IdealFor:         "Freelancers, cafés, law offices",
			Icon:             "file-text",
			IncludedFeatures: []IncludedItem{responsive, contact, maps, ssl},
		},
		{
			ID:           TypeMultiPage,
			Name:         "Corporate Site",
			Description:  "3-8 pages with a CMS for a company presence.",
			BasePrice:    1500,
			TimeEstimate: "2-3 weeks",
			IdealFor:     "Companies, clinics, offices",
			Icon:         "globe",
			Popular:      true,
			IncludedFeatures: []IncludedItem{
				responsive, contact, maps, ssl,
				{Name: "CMS (Content Management)", Icon: "file-text"},
				seo, ga4, gdpr,
			},
		},
		{
			ID:           TypeEshopSmall,
			Name:         "E-Shop Basic",
			Description:  "Online store with up to 50 products.",
			BasePrice:    3000,
			TimeEstimate: "3-4 weeks",
			IdealFor:     "Small shops, handmade goods",
			Icon:         "shopping-cart",
			IncludedFeatures: []IncludedItem{
				responsive, ssl,
				{Name: "Product CMS", Icon: "file-text"},
				{Name: "Shopping Cart", Icon: "shopping-cart"},
				contact, maps, seo, ga4, gdpr,
			},
		},
		{
			ID:           TypeEshopLarge,
			Name:         "E-Shop Pro",
			Description:  "500+ products, bulk import, advanced filters.",
			BasePrice:    4000,
			TimeEstimate: "5-8 weeks",
			IdealFor:     "Fashion, electronics, wholesale",
			Icon:         "database",
			IncludedFeatures: []IncludedItem{
				responsive, ssl,
				{Name: "Product CMS (Bulk Import)", Icon: "file-text"},
				{Name: "Advanced SEO Setup", Icon: "search"},
				{Name: "Google Analytics 4 + GTM", Icon: "bar-chart-3"},
				{Name: "Wishlist & Comparison", Icon: "eye"},
			},
		},
		{
			ID:           TypeWebApp,
			Name:         "Web App / Platform",
			Description:  "Custom application with users, dashboard and API.",
			BasePrice:    5000,
			TimeEstimate: "6-12 weeks",
			IdealFor:     "SaaS, portals, booking systems",
			Icon:         "zap",
			IncludedFeatures: []IncludedItem{
				responsive, ssl,
				{Name: "User Authentication", Icon: "users"},
				{Name: "Admin Dashboard", Icon: "bar-chart-3"},
				{Name: "REST API", Icon: "database"},
				{Name: "Deployment & CI/CD", Icon: "zap"},
			},
		},
	}
}

func defaultCategories() []FeatureCategory {
	return []FeatureCategory{
		{ID: "appearance", Name: "Appearance & Content", Icon: "palette", ShowFor: allTypes, Description: "Animations, blog, languages, gallery."},
		{ID: "marketing", Name: "Marketing & SEO", Icon: "bar-chart-3", ShowFor: allTypes, Description: "Google ranking, ads, analytics."},
		{ID: "communication", Name: "Communication & Tools", Icon: "message-square", ShowFor: allTypes, Description: "Chat, appointments, newsletter."},
		{ID: "branding", Name: "Design & Branding", Icon: "brush", ShowFor: allTypes, Description: "Logo, colors, corporate identity."},
		{ID: "store", Name: "Store Features", Icon: "shopping-cart", ShowFor: shopTypes, Description: "Wishlist, reviews, coupons."},
		{ID: "payments", Name: "Payments", Icon: "credit-card", ShowFor: shopTypes, Description: "Bank, PayPal, cash on delivery."},
		{ID: "shipping", Name: "Shipping & Courier", Icon: "truck", ShowFor: shopTypes, Description: "ACS, ELTA, Speedex, DHL."},
		{ID: "usermgmt", Name: "Users & Access", Icon: "users", ShowFor: appOnly, Description: "Sign-up, login, roles, dashboard."},
		{ID: "security", Name: "Security", Icon: "shield", ShowFor: secureTypes, Description: "2FA, GDPR, audit log, backup."},
		{ID: "integrations", Name: "Integrations & APIs", Icon: "layers", ShowFor: []string{TypeMultiPage, TypeEshopLarge, TypeWebApp}, Description: "ERP, CRM, custom API."},
		{ID: "advanced", Name: "Advanced Features", Icon: "zap", ShowFor: appOnly, Description: "Real-time, search, multi-tenant."},
	}
}

func defaultFeatures() []Feature {
	return []Feature{
		// appearance
		{ID: "responsive-design", Category: "appearance", Name: "Responsive Design", Description: "Adapts to phones and tablets", Icon: "smartphone", Pricing: OneTimePrice(0), ShowFor: allTypes, IncludedIn: allTypes},
		{ID: "cms", Category: "appearance", Name: "CMS (Content Management)", Description: "Edit your texts yourself", Icon: "file-text", Pricing: OneTimePrice(300), ShowFor: siteTypes, IncludedIn: []string{TypeMultiPage, TypeEshopSmall, TypeEshopLarge}},
		{ID: "custom-animations", Category: "appearance", Name: "Animations & Scroll Effects", Description: "Striking effects while scrolling", Icon: "zap", Pricing: RangePrice(150, 300), ShowFor: allTypes},
		{ID: "blog", Category: "appearance", Name: "Blog / News & Articles", Description: "Publish articles yourself", Icon: "file-text", Pricing: RangePrice(200, 400), ShowFor: siteTypes},
		{ID: "multilang", Category: "appearance", Name: "Multilingual Site (GR, EN, +)", Description: "Site in several languages", Icon: "globe", Pricing: RangePrice(300, 500), ShowFor: allTypes},
		{ID: "gallery", Category: "appearance", Name: "Gallery / Portfolio", Description: "Image showcase with filters", Icon: "image", Pricing: RangePrice(150, 300), ShowFor: siteTypes},
		{ID: "copywriting", Category: "appearance", Name: "Copywriting", Description: "Professional copy per page", Icon: "file-text", Pricing: RangePrice(50, 150), ShowFor: siteTypes},

		// marketing
		{ID: "seo-basic", Category: "marketing", Name: "Basic On-Page SEO", Description: "Meta tags, sitemap, alt texts", Icon: "search", Pricing: RangePrice(100, 200), ShowFor: allTypes, IncludedIn: []string{TypeMultiPage, TypeEshopSmall}},
		{ID: "analytics", Category: "marketing", Name: "Google Analytics 4", Description: "Visitor tracking", Icon: "bar-chart-3", Pricing: RangePrice(100, 150), ShowFor: allTypes, IncludedIn: []string{TypeMultiPage, TypeEshopSmall, TypeEshopLarge}},
		{ID: "seo-advanced", Category: "marketing", Name: "Advanced SEO Setup", Description: "Schema markup, structured data", Icon: "search", Pricing: RangePrice(200, 400), ShowFor: seoTypes, IncludedIn: []string{TypeEshopLarge}},
		{ID: "speed", Category: "marketing", Name: "Speed Optimization", Description: "Faster site, better SEO", Icon: "zap", Pricing: RangePrice(150, 250), ShowFor: allTypes},
		{ID: "skroutz", Category: "marketing", Name: "Skroutz / BestPrice", Description: "Product feed listing", Icon: "bar-chart-3", Pricing: RangePrice(200, 350), ShowFor: shopTypes},
		{ID: "google-ads-setup", Category: "marketing", Name: "Google Ads Setup", Description: "Campaign setup", Icon: "bar-chart-3", Pricing: RangePrice(150, 300), ShowFor: siteTypes},

		// communication
		{ID: "contact-form", Category: "communication", Name: "Contact Form", Description: "Basic form with email", Icon: "mail", Pricing: OneTimePrice(0), ShowFor: siteTypes, IncludedIn: siteTypes},
		{ID: "google-maps", Category: "communication", Name: "Google Maps", Description: "Map with your location", Icon: "map-pin", Pricing: OneTimePrice(0), ShowFor: siteTypes, IncludedIn: siteTypes},
		{ID: "chat", Category: "communication", Name: "Live Chat", Description: "Chat box", Icon: "message-square", Pricing: RangePrice(200, 300), ShowFor: allTypes},
		{ID: "chatbot", Category: "communication", Name: "AI Chatbot", Description: "Automatic answers 24/7", Icon: "bot", Pricing: RangePrice(200, 500), ShowFor: seoTypes},
		{ID: "booking", Category: "communication", Name: "Online Appointments", Description: "Book appointments online", Icon: "calendar", Pricing: RangePrice(300, 600), ShowFor: siteTypes},
		{ID: "email-marketing", Category: "communication", Name: "Newsletter Integration", Description: "Mailchimp/Brevo connection", Icon: "mail", Pricing: RangePrice(100, 200), ShowFor: []string{TypeMultiPage, TypeEshopSmall, TypeEshopLarge}},

		// branding
		{ID: "logo", Category: "branding", Name: "Logo Design", Description: "Logo in SVG, PNG, PDF", Icon: "brush", Pricing: RangePrice(150, 400), ShowFor: allTypes},
		{ID: "brand-identity", Category: "branding", Name: "Full Corporate Identity", Description: "Logo + colors + guidelines", Icon: "palette", Pricing: RangePrice(400, 800), ShowFor: allTypes},

		// store
		{ID: "shopping-cart", Category: "store", Name: "Shopping Cart", Description: "Checkout system", Icon: "shopping-cart", Pricing: OneTimePrice(0), ShowFor: shopTypes, IncludedIn: shopTypes},
		{ID: "coupons", Category: "store", Name: "Coupons & Discounts", Description: "Discount codes", Icon: "credit-card", Pricing: RangePrice(100, 200), ShowFor: shopTypes},
		{ID: "wishlist", Category: "store", Name: "Wishlist", Description: "Save favourites", Icon: "eye", Pricing: RangePrice(100, 150), ShowFor: shopTypes, IncludedIn: []string{TypeEshopLarge}},
		{ID: "reviews", Category: "store", Name: "Product Reviews", Description: "Stars & reviews", Icon: "message-square", Pricing: RangePrice(100, 150), ShowFor: shopTypes},
		{ID: "filters", Category: "store", Name: "Advanced Filters", Description: "Color, size, price", Icon: "search", Pricing: RangePrice(200, 350), ShowFor: shopTypes},

		// payments
		{ID: "bank-gr", Category: "payments", Name: "Greek Bank Gateway", Description: "Piraeus, Alpha, NBG", Icon: "credit-card", Pricing: RangePrice(200, 400), ShowFor: shopTypes},
		{ID: "paypal-stripe", Category: "payments", Name: "PayPal / Stripe", Description: "International payments", Icon: "credit-card", Pricing: RangePrice(100, 200), ShowFor: shopTypes},
		{ID: "cod", Category: "payments", Name: "Cash on Delivery", Description: "Pay on receipt", Icon: "package", Pricing: OneTimePrice(100), ShowFor: shopTypes},

		// shipping
		{ID: "courier-acs", Category: "shipping", Name: "ACS Courier", Description: "Voucher & tracking", Icon: "truck", Pricing: RangePrice(200, 400), ShowFor: shopTypes},
		{ID: "courier-elta", Category: "shipping", Name: "ELTA Courier", Description: "Voucher & tracking", Icon: "truck", Pricing: RangePrice(200, 400), ShowFor: shopTypes},
		{ID: "courier-speedex", Category: "shipping", Name: "Speedex Courier", Description: "Voucher & tracking", Icon: "truck", Pricing: RangePrice(200, 400), ShowFor: shopTypes},

		// usermgmt
		{ID: "user-auth", Category: "usermgmt", Name: "User Authentication", Description: "Sign-up and login", Icon: "users", Pricing: OneTimePrice(0), ShowFor: appOnly, IncludedIn: appOnly},
		{ID: "admin-dashboard", Category: "usermgmt", Name: "Admin Dashboard", Description: "Control panel", Icon: "bar-chart-3", Pricing: OneTimePrice(0), ShowFor: appOnly, IncludedIn: appOnly},
		{ID: "social-login", Category: "usermgmt", Name: "Google / Facebook Login", Description: "Social authentication", Icon: "users", Pricing: RangePrice(200, 300), ShowFor: appOnly},
		{ID: "user-dashboard", Category: "usermgmt", Name: "User Dashboard", Description: "Member area", Icon: "bar-chart-3", Pricing: RangePrice(300, 600), ShowFor: appOnly},
		{ID: "roles", Category: "usermgmt", Name: "Access Levels", Description: "Admin, Editor, User", Icon: "shield", Pricing: RangePrice(300, 800), ShowFor: appOnly},

		// security
		{ID: "ssl-certificate", Category: "security", Name: "SSL Certificate", Description: "HTTPS security", Icon: "lock", Pricing: OneTimePrice(0), ShowFor: secureTypes, IncludedIn: secureTypes},
		{ID: "2fa", Category: "security", Name: "Two-Factor Authentication (2FA)", Description: "SMS OTP / Authenticator", Icon: "lock", Pricing: RangePrice(150, 200), ShowFor: secureTypes},
		{ID: "gdpr-full", Category: "security", Name: "Full GDPR Compliance", Description: "Cookie consent, privacy", Icon: "shield", Pricing: RangePrice(150, 300), ShowFor: secureTypes},
		{ID: "backup", Category: "security", Name: "Automatic Backup", Description: "Daily copy", Icon: "download", Pricing: RecurringPrice(100, Yearly), ShowFor: secureTypes},

		// integrations
		{ID: "erp", Category: "integrations", Name: "ERP Connection", Description: "SoftOne, Entersoft and others", Icon: "database", Pricing: RangePrice(800, 2000), ShowFor: secureTypes},
		{ID: "crm", Category: "integrations", Name: "CRM Connection", Description: "HubSpot, Salesforce", Icon: "users", Pricing: RangePrice(400, 800), ShowFor: []string{TypeMultiPage, TypeEshopLarge, TypeWebApp}},
		{ID: "custom-api", Category: "integrations", Name: "Custom API", Description: "Connect external systems", Icon: "database", Pricing: RangePrice(500, 2000), ShowFor: secureTypes},

		// advanced
		{ID: "realtime-notifs", Category: "advanced", Name: "Real-time Notifications", Description: "WebSocket server", Icon: "bell", Pricing: RangePrice(400, 700), ShowFor: appOnly},
		{ID: "search-engine", Category: "advanced", Name: "Smart Search", Description: "Algolia / Elasticsearch", Icon: "search", Pricing: RangePrice(400, 800), ShowFor: []string{TypeWebApp, TypeEshopLarge}},
		{ID: "file-upload", Category: "advanced", Name: "Cloud File Storage", Description: "S3-compatible storage", Icon: "download", Pricing: RangePrice(200, 400), ShowFor: appOnly},
	}
}

func defaultSupportPlans() []SupportPlan {
	return []SupportPlan{
		{
			ID:           "none",
			Name:         "No Maintenance",
			Description:  "Source code hand-over and documentation.",
			MonthlyPrice: 0,
			Icon:         "refresh-cw",
			Features:     []string{"Source code hand-over", "Setup documentation", "30 days of bug fixes"},
		},
		{
			ID:           "basic",
			Name:         "Basic Care",
			Description:  "Updates, backups, small changes.",
			MonthlyPrice: 80,
			Icon:         "headphones",
			Recommended:  true,
			Features:     []string{"Email support (24h)", "Security updates", "Text changes", "Monthly backup", "Uptime monitoring"},
		},
		{
			ID:           "premium",
			Name:         "Premium Care",
			Description:  "Priority support, content updates.",
			MonthlyPrice: 200,
			Icon:         "shield",
			Features:     []string{"Priority support (4h)", "Content updates 2x/month", "Daily backups", "Monthly analytics", "Free bug fixes"},
		},
	}
}
