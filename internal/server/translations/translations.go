package translations

// Translations contains all text strings for the map page
type Translations struct {
	Lang string

	// Page
	PageTitle string
	Heading   string
	Intro     string

	// Upload form
	FileLabel      string
	FuelLabel      string
	FuelAuto       string
	LoadButton     string
	Loading        string
	BadFile        string
	FileTooLarge   string
	UploadFailed   string
	SessionExpired string

	// Summary and legend
	StationsPlotted string
	RowsSkipped     string
	Cheaper         string
	Pricier         string
	NoPrice         string

	// Popup
	LastUpdated  string
	NotAvailable string
	NearbyButton string
	NearbyTitle  string
	KmAway       string
	NoNearby     string

	// Footer
	FooterNote     string
	SwitchLanguage string
	OtherLang      string
}

// GetTranslations returns translations for the specified language
func GetTranslations(lang string) Translations {
	switch lang {
	case "cy", "welsh", "cymraeg":
		return GetWelshTranslations()
	default:
		return GetEnglishTranslations()
	}
}

// GetLanguageFromQuery extracts language from query parameter, defaults to English
func GetLanguageFromQuery(langParam string) string {
	switch langParam {
	case "cy", "welsh", "cymraeg":
		return "cy"
	default:
		return "en"
	}
}
