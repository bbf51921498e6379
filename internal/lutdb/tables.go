package lutdb

import "meldify/pkg/models"

func lut(icon, color string, colorSpaces map[string]string, defaults ...string) models.LutInfo {
	if colorSpaces == nil {
		colorSpaces = map[string]string{}
	}
	return models.LutInfo{DefaultLUTs: defaults, ColorSpaceMap: colorSpaces, Icon: icon, Color: color}
}

var (
	redWideGamut = map[string]string{
		"bt2020": "REDWideGamutRGB_BT2020.cube",
		"bt709":  "REDWideGamutRGB_BT709.cube",
	}
	arriLogC = map[string]string{
		"bt2020": "ARRI_LogC_to_BT2020.cube",
		"bt709":  "ARRI_LogC_to_Rec709.cube",
	}
	bmdFilm = map[string]string{"bt709": "BMD_Film_to_Rec709.cube"}
)

var defaultCameras = []Camera{
	// RED
	{RedDigitalCinema, lut("🔴", "#e74c3c", redWideGamut, "REDLogFilm", "REDWideGamutRGB")},
	{"RED KOMODO", lut("🔴", "#c0392b", redWideGamut, "REDWideGamutRGB/Log3G10", "REDLogFilm")},
	{"RED DSMC2", lut("🔴", "#c0392b", redWideGamut, "REDWideGamutRGB/Log3G10", "REDLogFilm")},
	{"RED EPIC", lut("🔴", "#c0392b", map[string]string{"bt709": "REDcolor4_BT709.cube"}, "REDLogFilm", "REDcolor4")},

	// ARRI
	{"ARRI ALEXA", lut("🎬", "#2980b9", arriLogC, "ARRI_LogC-to-Rec709", "ARRI_K1S1")},
	{"ALEXA", lut("🎬", "#2980b9", arriLogC, "ARRI_LogC-to-Rec709", "ARRI_K1S1")},
	{"ARRI ALEXA MINI", lut("🎬", "#2980b9", arriLogC, "ARRI_LogC-to-Rec709", "ARRI_K1S1")},
	{"ARRI AMIRA", lut("🎬", "#3498db", arriLogC, "ARRI_LogC-to-Rec709", "ARRI_K1S1")},

	// Sony
	{"SONY VENICE", lut("📽️", "#8e44ad", map[string]string{
		"bt2020": "SGamut3Cine_SLog3_to_BT2020.cube",
		"bt709":  "SGamut3Cine_SLog3_to_Rec709.cube",
	}, "S-Gamut3.Cine/S-Log3", "Sony_LC-709")},
	{"SONY FX9", lut("📽️", "#9b59b6", map[string]string{"bt709": "SGamut3Cine_SLog3_to_Rec709.cube"}, "S-Gamut3.Cine/S-Log3", "Sony_LC-709")},
	{"SONY F55", lut("📽️", "#9b59b6", map[string]string{"bt709": "SGamut3_SLog3_to_Rec709.cube"}, "S-Gamut3/S-Log3", "Sony_LC-709")},
	{"SONY FS7", lut("📽️", "#9b59b6", map[string]string{"bt709": "SGamut3_SLog3_to_Rec709.cube"}, "S-Gamut3/S-Log3", "Sony_LC-709")},
	{"SONY A7S", lut("📽️", "#9b59b6", map[string]string{"bt709": "SGamut3Cine_SLog3_to_Rec709.cube"}, "S-Gamut3.Cine/S-Log3", "Sony_LC-709")},

	// Canon
	{"CANON C300", lut("🎥", "#d35400", map[string]string{"bt709": "Canon_C-Log_to_Rec709.cube"}, "Canon_C-Log", "Canon_C-Log_to_Rec709")},
	{"CANON C100", lut("🎥", "#d35400", map[string]string{"bt709": "Canon_C-Log_to_Rec709.cube"}, "Canon_C-Log", "Canon_C-Log_to_Rec709")},
	{"CANON C500", lut("🎥", "#e67e22", map[string]string{"bt709": "Canon_C-Log2_to_Rec709.cube"}, "Canon_C-Log2", "Canon_C-Log2_to_Rec709")},

	// Blackmagic
	{"BLACKMAGIC", lut("🎭", "#2c3e50", bmdFilm, "BMD_Film_to_Rec709", "BMD_4K_Film")},
	{"BMPCC", lut("🎭", "#2c3e50", bmdFilm, "BMD_Film_to_Rec709", "BMD_4K_Film")},
	{"URSA", lut("🎭", "#2c3e50", bmdFilm, "BMD_Film_to_Rec709", "BMD_4.6K_Film")},

	// Action and aerial
	{"GOPRO", lut("📱", "#2ecc71", map[string]string{"bt709": "GoPro_Flat_to_Rec709.cube"}, "GoPro_Flat_to_Rec709", "GoPro_Protune")},
	{"DJI", lut("🚁", "#27ae60", map[string]string{"bt709": "DJI_D-Log_to_Rec709.cube"}, "DJI_D-Log_to_Rec709", "DJI_D-Cinelike")},
	{"PHANTOM", lut("🚁", "#16a085", map[string]string{"bt709": "Phantom_Log_to_Rec709.cube"}, "Phantom_Log_to_Rec709")},

	// Extension buckets
	{GenericR3D, lut("🔴", "#c0392b", nil, "REDLogFilm")},
	{GenericMXF, lut("🎬", "#34495e", nil, "LogC-to-Rec709", "S-Log3_to_Rec709")},
	{GenericMOV, lut("🎥", "#7f8c8d", nil, "Neutral", "Log-to-Rec709")},
	{GenericMP4, lut("📱", "#95a5a6", nil, "Neutral")},
	{GenericDNG, lut("🎭", "#2c3e50", nil, "BMD_Film_to_Rec709", "Neutral")},
}

var defaultFolderKeywords = []FolderKeyword{
	// RED
	{"red", RedDigitalCinema},
	{"r3d", RedDigitalCinema},
	{"komodo", "RED KOMODO"},
	{"epic", "RED EPIC"},
	{"helium", "RED DSMC2"},
	{"gemini", "RED DSMC2"},
	{"dragon", "RED DSMC2"},
	{"monstro", "RED DSMC2"},
	{"reel", RedDigitalCinema},

	// ARRI
	{"arri", "ARRI ALEXA"},
	{"alexa", "ARRI ALEXA"},
	{"mini", "ARRI ALEXA MINI"},
	{"amira", "ARRI AMIRA"},

	// Sony
	{"sony", "SONY VENICE"},
	{"venice", "SONY VENICE"},
	{"fx9", "SONY FX9"},
	{"fs7", "SONY FS7"},
	{"f55", "SONY F55"},
	{"a7s", "SONY A7S"},

	// Canon
	{"canon", "CANON C300"},
	{"c300", "CANON C300"},
	{"c100", "CANON C100"},
	{"c500", "CANON C500"},

	// Blackmagic
	{"blackmagic", "BLACKMAGIC"},
	{"bmpcc", "BMPCC"},
	{"ursa", "URSA"},
	{"pocket", "BMPCC"},

	// Action and aerial
	{"gopro", "GOPRO"},
	{"hero", "GOPRO"},
	{"action", "GOPRO"},
	{"dji", "DJI"},
	{"drone", "DJI"},
	{"phantom", "PHANTOM"},
	{"mavic", "DJI"},
	{"air", "DJI"},
}
