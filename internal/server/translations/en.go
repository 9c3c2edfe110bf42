package translations

// GetEnglishTranslations returns all English text strings
func GetEnglishTranslations() Translations {
	return Translations{
		Lang: "en",

		// Page
		PageTitle: "UK Fuel Price Map",
		Heading:   "⛽ UK Fuel Price Map",
		Intro:     "Load a fuel-station CSV export to plot every forecourt, colored by price.",

		// Upload form
		FileLabel:      "CSV file",
		FuelLabel:      "Fuel",
		FuelAuto:       "Automatic (E10, E5, B7, SDV)",
		LoadButton:     "Show on map",
		Loading:        "Loading stations...",
		BadFile:        "This file does not look like a fuel-station CSV export.",
		FileTooLarge:   "This file is too large.",
		UploadFailed:   "Something went wrong while loading the file.",
		SessionExpired: "This map has expired. Please load the file again.",

		// Summary and legend
		StationsPlotted: "stations plotted",
		RowsSkipped:     "rows without coordinates skipped",
		Cheaper:         "Cheaper",
		Pricier:         "Pricier",
		NoPrice:         "No price",

		// Popup
		LastUpdated:  "Last updated:",
		NotAvailable: "N/A",
		NearbyButton: "Cheapest nearby",
		NearbyTitle:  "Cheapest within",
		KmAway:       "km away",
		NoNearby:     "No stations nearby.",

		// Footer
		FooterNote:     "Your file stays in this browser session and is discarded when it expires.",
		SwitchLanguage: "Cymraeg",
		OtherLang:      "cy",
	}
}
