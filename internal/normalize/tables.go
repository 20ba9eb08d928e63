package normalize

// Tables holds the fixed lookup data driving email normalization. Both maps
// are treated as immutable after construction; inject fixture tables in tests.
type Tables struct {
	// KnownContacts maps an underscore-encoded short key to the organization's
	// canonical address. Canonical values may carry mixed case on purpose.
	KnownContacts map[string]string
	// DomainCorrections maps an underscore-encoded domain suffix to its
	// "@domain" form.
	DomainCorrections map[string]string
}

// DefaultTables returns the production lookup data for the register's staff
// directory and the domain suffixes the form tool is known to mangle.
func DefaultTables() Tables {
	return Tables{
		KnownContacts: map[string]string{
			"kader_maiga":                 "Kader.Maiga@VivoEnergy.com",
			"jessica_brou":                "jessica.brou@vivoenergy.com",
			"regine_nogbou":               "Regine.Nogbou@vivoenergy.com",
			"konan_ngoran":                "Konan.Ngoran@vivoenergy.com",
			"armand_seri":                 "Armand.Seri@vivoenergy.com",
			"jean_bohoussou":              "Jean.Bohoussou@vivoenergy.com",
			"juvenal_guei":                "Juvenal.Guei@vivoenergy.com",
			"jean_paul_nobou":             "Jean-Paul.Nobou@vivoenergy.com",
			"sidonie_gnammon":             "Sidonie.Gnammon@vivoenergy.com",
			"bernadin_kouassi":            "bernadin.kouassi@vivoenergy.com",
			"solange_gbeuly":              "Solange.Gbeuly@vivoenergy.com",
			"emma_yapi":                   "Emma.Yapi@vivoenergy.com",
			"charles_tape":                "Charles.Tape@vivoenergy.com",
			"christophe_dia":              "Christophe.Dia@vivoenergy.com",
			"brehima_kone":                "Brehima.Kone@vivoenergy.com",
			"frederic_kouadio":            "Frederic.Kouadio@vivoenergy.com",
			"emmanuella_kouame":           "emmanuella.kouame@vivoenergy.com",
			"paule_irene_diallo":          "Paule-Irene.Diallo@vivoenergy.com",
			"eunice_achie":                "eunice.achie@vivoenergy.com",
			"eunice_achie_vivoenergy_com": "eunice.achie@vivoenergy.com",
			"emma_yapi_vivoenergy_com":    "Emma.Yapi@vivoenergy.com",
		},
		DomainCorrections: map[string]string{
			"_gmail_com":      "@gmail.com",
			"_yahoo_com":      "@yahoo.com",
			"_outlook_com":    "@outlook.com",
			"_vivoenergy_com": "@vivoenergy.com",
		},
	}
}
