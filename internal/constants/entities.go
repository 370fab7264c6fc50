package constants

// NumericReplacements maps the Windows-1252 code points that HTML5 numeric
// character references remap per the tokenizer's "numeric character
// reference end state" (WHATWG §13.2.5.80). Browsers inherited these from
// legacy documents that used Windows-1252 bytes inside decimal/hex
// references instead of the correct Unicode code point.
var NumericReplacements = map[int]rune{
	0x00: '�',
	0x80: '€',
	0x82: '‚',
	0x83: 'ƒ',
	0x84: '„',
	0x85: '…',
	0x86: '†',
	0x87: '‡',
	0x88: 'ˆ',
	0x89: '‰',
	0x8A: 'Š',
	0x8B: '‹',
	0x8C: 'Œ',
	0x8E: 'Ž',
	0x91: '‘',
	0x92: '’',
	0x93: '“',
	0x94: '”',
	0x95: '•',
	0x96: '–',
	0x97: '—',
	0x98: '˜',
	0x99: '™',
	0x9A: 'š',
	0x9B: '›',
	0x9C: 'œ',
	0x9E: 'ž',
	0x9F: 'Ÿ',
}

// LegacyEntities holds the named character references that may appear
// without a trailing semicolon, for historical HTML4/Latin-1 compatibility.
// Everything outside this set requires the semicolon per WHATWG §13.2.5.73.
var LegacyEntities = map[string]bool{
	"gt": true, "lt": true, "amp": true, "quot": true, "apos": true, "nbsp": true, "AMP": true,
	"AElig": true, "Aacute": true, "Acirc": true, "Agrave": true, "Aring": true, "Atilde": true, "Auml": true,
	"Ccedil": true, "ETH": true, "Eacute": true, "Ecirc": true, "Egrave": true, "Euml": true,
	"Iacute": true, "Icirc": true, "Igrave": true, "Iuml": true,
	"Ntilde": true, "Oacute": true, "Ocirc": true, "Ograve": true, "Oslash": true, "Otilde": true, "Ouml": true,
	"THORN": true, "Uacute": true, "Ucirc": true, "Ugrave": true, "Uuml": true, "Yacute": true,
	"aacute": true, "acirc": true, "acute": true, "aelig": true, "agrave": true, "aring": true, "atilde": true, "auml": true,
	"brvbar": true, "ccedil": true, "cedil": true, "cent": true, "copy": true, "curren": true,
	"deg": true, "divide": true,
	"eacute": true, "ecirc": true, "egrave": true, "eth": true, "euml": true,
	"frac12": true, "frac14": true, "frac34": true,
	"iacute": true, "icirc": true, "iexcl": true, "igrave": true, "iquest": true, "iuml": true,
	"laquo": true, "macr": true, "micro": true, "middot": true,
	"not": true, "ntilde": true,
	"oacute": true, "ocirc": true, "ograve": true, "ordf": true, "ordm": true, "oslash": true, "otilde": true, "ouml": true,
	"para": true, "plusmn": true, "pound": true,
	"raquo": true, "reg": true,
	"sect": true, "shy": true, "sup1": true, "sup2": true, "sup3": true, "szlig": true,
	"thorn": true, "times": true,
	"uacute": true, "ucirc": true, "ugrave": true, "uml": true, "uuml": true,
	"yacute": true, "yen": true, "yuml": true,
}

// NamedEntities maps named character reference names (without the leading
// "&" or trailing ";") to their decoded replacement text. A handful of
// entries decode to more than one code point (e.g. "acE" carries a combining
// mark) per the WHATWG named character reference table.
var NamedEntities = buildNamedEntities()

func buildNamedEntities() map[string]string {
	m := make(map[string]string, 600)

	// Everything usable without a semicolon is also usable with one.
	latin1 := map[string]string{
		"gt": ">", "lt": "<", "amp": "&", "quot": "\"", "apos": "'", "nbsp": " ", "AMP": "&",
		"GT": ">", "LT": "<", "QUOT": "\"",
		"AElig": "Æ", "Aacute": "Á", "Acirc": "Â", "Agrave": "À", "Aring": "Å", "Atilde": "Ã", "Auml": "Ä",
		"Ccedil": "Ç", "ETH": "Ð", "Eacute": "É", "Ecirc": "Ê", "Egrave": "È", "Euml": "Ë",
		"Iacute": "Í", "Icirc": "Î", "Igrave": "Ì", "Iuml": "Ï",
		"Ntilde": "Ñ", "Oacute": "Ó", "Ocirc": "Ô", "Ograve": "Ò", "Oslash": "Ø", "Otilde": "Õ", "Ouml": "Ö",
		"THORN": "Þ", "Uacute": "Ú", "Ucirc": "Û", "Ugrave": "Ù", "Uuml": "Ü", "Yacute": "Ý",
		"aacute": "á", "acirc": "â", "acute": "´", "aelig": "æ", "agrave": "à", "aring": "å", "atilde": "ã", "auml": "ä",
		"brvbar": "¦", "ccedil": "ç", "cedil": "¸", "cent": "¢", "copy": "©", "COPY": "©", "curren": "¤",
		"deg": "°", "divide": "÷",
		"eacute": "é", "ecirc": "ê", "egrave": "è", "eth": "ð", "euml": "ë",
		"frac12": "½", "frac14": "¼", "frac34": "¾",
		"iacute": "í", "icirc": "î", "iexcl": "¡", "igrave": "ì", "iquest": "¿", "iuml": "ï",
		"laquo": "«", "macr": "¯", "micro": "µ", "middot": "·",
		"not": "¬", "ntilde": "ñ",
		"oacute": "ó", "ocirc": "ô", "ograve": "ò", "ordf": "ª", "ordm": "º", "oslash": "ø", "otilde": "õ", "ouml": "ö",
		"para": "¶", "plusmn": "±", "pound": "£",
		"raquo": "»", "reg": "®", "REG": "®",
		"sect": "§", "shy": "­", "sup1": "¹", "sup2": "²", "sup3": "³", "szlig": "ß",
		"thorn": "þ", "times": "×",
		"uacute": "ú", "ucirc": "û", "ugrave": "ù", "uml": "¨", "uuml": "ü",
		"yacute": "ý", "yen": "¥", "yuml": "ÿ",
	}
	for k, v := range latin1 {
		m[k] = v
	}

	greek := map[string]string{
		"Alpha": "Α", "Beta": "Β", "Gamma": "Γ", "Delta": "Δ", "Epsilon": "Ε",
		"Zeta": "Ζ", "Eta": "Η", "Theta": "Θ", "Iota": "Ι", "Kappa": "Κ",
		"Lambda": "Λ", "Mu": "Μ", "Nu": "Ν", "Xi": "Ξ", "Omicron": "Ο",
		"Pi": "Π", "Rho": "Ρ", "Sigma": "Σ", "Tau": "Τ", "Upsilon": "Υ",
		"Phi": "Φ", "Chi": "Χ", "Psi": "Ψ", "Omega": "Ω",
		"alpha": "α", "beta": "β", "gamma": "γ", "delta": "δ", "epsilon": "ε",
		"zeta": "ζ", "eta": "η", "theta": "θ", "iota": "ι", "kappa": "κ",
		"lambda": "λ", "mu": "μ", "nu": "ν", "xi": "ξ", "omicron": "ο",
		"pi": "π", "rho": "ρ", "sigmaf": "ς", "sigma": "σ", "tau": "τ",
		"upsilon": "υ", "phi": "φ", "chi": "χ", "psi": "ψ", "omega": "ω",
	}
	for k, v := range greek {
		m[k] = v
	}

	general := map[string]string{
		"ensp": " ", "emsp": " ", "thinsp": " ", "zwnj": "‌", "zwj": "‍",
		"lrm": "‎", "rlm": "‏", "ndash": "–", "mdash": "—",
		"lsquo": "‘", "rsquo": "’", "sbquo": "‚", "ldquo": "“", "rdquo": "”", "bdquo": "„",
		"dagger": "†", "Dagger": "‡", "bull": "•", "hellip": "…",
		"permil": "‰", "prime": "′", "Prime": "″",
		"oline": "‾", "frasl": "⁄", "euro": "€",
		"image": "ℑ", "weierp": "℘", "real": "ℜ", "trade": "™",
		"alefsym": "ℵ", "larr": "←", "uarr": "↑", "rarr": "→", "darr": "↓", "harr": "↔",
		"crarr": "↵", "lArr": "⇐", "uArr": "⇑", "rArr": "⇒", "dArr": "⇓", "hArr": "⇔",
		"forall": "∀", "part": "∂", "exist": "∃", "empty": "∅",
		"nabla": "∇", "isin": "∈", "notin": "∉", "ni": "∋", "prod": "∏", "sum": "∑",
		"minus": "−", "lowast": "∗", "radic": "√", "prop": "∝", "infin": "∞", "ang": "∠",
		"and": "∧", "or": "∨", "cap": "∩", "cup": "∪", "int": "∫", "there4": "∴",
		"sim": "∼", "cong": "≅", "asymp": "≈", "ne": "≠", "equiv": "≡",
		"le": "≤", "ge": "≥", "sub": "⊂", "sup": "⊃", "nsub": "⊄",
		"sube": "⊆", "supe": "⊇", "oplus": "⊕", "otimes": "⊗", "perp": "⊥", "sdot": "⋅",
		"lceil": "⌈", "rceil": "⌉", "lfloor": "⌊", "rfloor": "⌋",
		"lang": "⟨", "rang": "⟩",
		"loz": "◊", "spades": "♠", "clubs": "♣", "hearts": "♥", "diams": "♦",
		"NewLine": "\n", "Tab": "\t", "ZeroWidthSpace": "​",
	}
	for k, v := range general {
		m[k] = v
	}

	// A small sample of the entities whose canonical replacement text is
	// more than one code point (a base character plus a combining mark).
	multiChar := map[string]string{
		"NotEqualTilde": "≂̸",
		"acE":           "∾̳",
	}
	for k, v := range multiChar {
		m[k] = v
	}

	return m
}
