package store

// DefaultSettings returns the built-in site configuration. Reads of legacy
// persisted settings are overlaid on top of this value so newly introduced
// fields always resolve to something sensible.
func DefaultSettings() SiteSettings {
	return SiteSettings{
		HeroTitle:    "BRAND_NAME_HERE",
		HeroSubtitle: "Your vision, your brand. Upload assets in Admin.",
		HeroImage:    "",
		AboutTitle:   "OUR MISSION",
		AboutText:    "Edit this text in the admin panel to tell your brand's unique story.",
		AboutImage:   "",
		Features: []FeatureItem{
			{Icon: "fa-bolt", Title: "Feature 1", Desc: "Description here", Stat: "99%"},
			{Icon: "fa-wind", Title: "Feature 2", Desc: "Description here", Stat: "MAX"},
			{Icon: "fa-shield-heart", Title: "Feature 3", Desc: "Description here", Stat: "SAFE"},
			{Icon: "fa-microchip", Title: "Feature 4", Desc: "Description here", Stat: "LIVE"},
		},
		GalleryImages:  []string{},
		ProductsPerRow: 3,
		AccentColor:    "#3b82f6",
		ShowFeatures:   true,
		ShowAbout:      true,
		ShowGallery:    true,
		ShowReviews:    true,
		ShowTShirts:    true,
	}
}

// SeedProducts returns the built-in catalog used when no products have been
// persisted yet, so the storefront is never empty on first run. The seed is
// returned, not written back.
func SeedProducts() []Product {
	return []Product{
		{
			ID:          "seed-runner-01",
			Name:        "Velocity Runner",
			Price:       129,
			Category:    "Running",
			Type:        TypeShoe,
			Description: "Lightweight daily trainer with a responsive foam midsole.",
			Image:       "/assets/seed/velocity-runner.png",
			Images:      []string{"/assets/seed/velocity-runner.png"},
			IsFeatured:  true,
			OrderWeight: 0,
			Variants: []Variant{
				{
					Color:  "Black",
					Images: []string{"/assets/seed/velocity-runner-black.png"},
					Sizes: []SizeStock{
						{Size: "8", Stock: 10},
						{Size: "9", Stock: 8},
						{Size: "10", Stock: 5},
					},
				},
			},
		},
		{
			ID:          "seed-court-02",
			Name:        "Court Classic",
			Price:       99,
			Category:    "Lifestyle",
			Type:        TypeShoe,
			Description: "Clean leather court shoe, built for everyday wear.",
			Image:       "/assets/seed/court-classic.png",
			Images:      []string{"/assets/seed/court-classic.png"},
			OrderWeight: 1,
		},
		{
			ID:          "seed-tee-03",
			Name:        "Essential Tee",
			Price:       35,
			Category:    "Apparel",
			Type:        TypeTShirt,
			Description: "Heavyweight cotton tee with a relaxed fit.",
			Image:       "/assets/seed/essential-tee.png",
			Images:      []string{"/assets/seed/essential-tee.png"},
			OrderWeight: 2,
			Variants: []Variant{
				{
					Color: "White",
					Sizes: []SizeStock{
						{Size: "S", Stock: 12},
						{Size: "M", Stock: 20},
						{Size: "L", Stock: 14},
					},
				},
			},
		},
	}
}
