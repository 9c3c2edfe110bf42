package translations

// GetWelshTranslations returns all Welsh text strings
func GetWelshTranslations() Translations {
	return Translations{
		Lang: "cy",

		// Page
		PageTitle: "Map Prisiau Tanwydd y DU",
		Heading:   "⛽ Map Prisiau Tanwydd y DU",
		Intro:     "Llwythwch allforyn CSV o orsafoedd tanwydd i ddangos pob blaengwrt, wedi'i liwio yn ôl pris.",

		// Upload form
		FileLabel:      "Ffeil CSV",
		FuelLabel:      "Tanwydd",
		FuelAuto:       "Awtomatig (E10, E5, B7, SDV)",
		LoadButton:     "Dangos ar y map",
		Loading:        "Yn llwytho gorsafoedd...",
		BadFile:        "Nid yw'r ffeil hon yn edrych fel allforyn CSV gorsafoedd tanwydd.",
		FileTooLarge:   "Mae'r ffeil hon yn rhy fawr.",
		UploadFailed:   "Aeth rhywbeth o'i le wrth lwytho'r ffeil.",
		SessionExpired: "Mae'r map hwn wedi dod i ben. Llwythwch y ffeil eto.",

		// Summary and legend
		StationsPlotted: "gorsaf ar y map",
		RowsSkipped:     "rhes heb gyfesurynnau wedi'u hepgor",
		Cheaper:         "Rhatach",
		Pricier:         "Drutach",
		NoPrice:         "Dim pris",

		// Popup
		LastUpdated:  "Diweddarwyd:",
		NotAvailable: "Dim ar gael",
		NearbyButton: "Rhataf gerllaw",
		NearbyTitle:  "Rhataf o fewn",
		KmAway:       "km i ffwrdd",
		NoNearby:     "Dim gorsafoedd gerllaw.",

		// Footer
		FooterNote:     "Mae eich ffeil yn aros yn y sesiwn porwr hon ac yn cael ei thaflu pan ddaw i ben.",
		SwitchLanguage: "English",
		OtherLang:      "en",
	}
}
