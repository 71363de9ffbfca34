package formula

// greek maps letter commands to their glyphs.
var greek = map[string]string{
	"alpha": "α", "beta": "β", "gamma": "γ", "delta": "δ", "epsilon": "ϵ",
	"varepsilon": "ε", "zeta": "ζ", "eta": "η", "theta": "θ", "vartheta": "ϑ",
	"iota": "ι", "kappa": "κ", "lambda": "λ", "mu": "μ", "nu": "ν", "xi": "ξ",
	"omicron": "ο", "pi": "π", "varpi": "ϖ", "rho": "ρ", "varrho": "ϱ",
	"sigma": "σ", "varsigma": "ς", "tau": "τ", "upsilon": "υ", "phi": "ϕ",
	"varphi": "φ", "chi": "χ", "psi": "ψ", "omega": "ω",
	"Gamma": "Γ", "Delta": "Δ", "Theta": "Θ", "Lambda": "Λ", "Xi": "Ξ",
	"Pi": "Π", "Sigma": "Σ", "Upsilon": "Υ", "Phi": "Φ", "Psi": "Ψ", "Omega": "Ω",
}

// relations end the operand of an n-ary operator.
var relations = map[string]string{
	"leq": "≤", "le": "≤", "geq": "≥", "ge": "≥", "neq": "≠", "ne": "≠",
	"approx": "≈", "equiv": "≡", "sim": "∼", "simeq": "≃", "cong": "≅",
	"propto": "∝", "ll": "≪", "gg": "≫", "subset": "⊂", "supset": "⊃",
	"subseteq": "⊆", "supseteq": "⊇", "in": "∈", "notin": "∉", "ni": "∋",
	"to": "→", "rightarrow": "→", "leftarrow": "←", "gets": "←",
	"Rightarrow": "⇒", "Leftarrow": "⇐", "leftrightarrow": "↔",
	"Leftrightarrow": "⇔", "mapsto": "↦", "implies": "⟹", "iff": "⟺",
	"longrightarrow": "⟶", "longleftarrow": "⟵", "uparrow": "↑", "downarrow": "↓",
	"perp": "⊥", "parallel": "∥", "mid": "∣", "models": "⊨", "vdash": "⊢",
	"prec": "≺", "succ": "≻", "preceq": "⪯", "succeq": "⪰", "doteq": "≐",
}

// operators are upright binary operators and miscellaneous symbols.
var operators = map[string]string{
	"times": "×", "div": "÷", "cdot": "⋅", "pm": "±", "mp": "∓", "ast": "∗",
	"star": "⋆", "circ": "∘", "bullet": "∙", "oplus": "⊕", "ominus": "⊖",
	"otimes": "⊗", "odot": "⊙", "cup": "∪", "cap": "∩", "setminus": "∖",
	"wedge": "∧", "land": "∧", "vee": "∨", "lor": "∨", "neg": "¬", "lnot": "¬",
	"forall": "∀", "exists": "∃", "nexists": "∄", "emptyset": "∅",
	"varnothing": "∅", "infty": "∞", "partial": "∂", "nabla": "∇",
	"angle": "∠", "triangle": "△", "square": "□", "therefore": "∴",
	"because": "∵", "ldots": "…", "dots": "…", "cdots": "⋯", "vdots": "⋮",
	"ddots": "⋱", "prime": "′", "degree": "°", "hbar": "ℏ", "ell": "ℓ",
	"Re": "ℜ", "Im": "ℑ", "aleph": "ℵ", "wp": "℘", "langle": "⟨", "rangle": "⟩",
	"lfloor": "⌊", "rfloor": "⌋", "lceil": "⌈", "rceil": "⌉", "backslash": "∖",
	"colon": ":", "surd": "√", "top": "⊤", "bot": "⊥", "dagger": "†",
	"{": "{", "}": "}", "|": "‖", "%": "%", "$": "$", "#": "#", "&": "&",
	"_": "_", "lbrace": "{", "rbrace": "}", "vert": "|", "Vert": "‖",
}

// naryOperators render as Word n-ary objects with limits.
var naryOperators = map[string]string{
	"sum": "∑", "prod": "∏", "coprod": "∐", "int": "∫", "iint": "∬",
	"iiint": "∭", "oint": "∮", "bigcup": "⋃", "bigcap": "⋂",
	"bigoplus": "⨁", "bigotimes": "⨂", "bigvee": "⋁", "bigwedge": "⋀",
}

// integrals place their limits as sub/superscripts rather than under/over.
var integrals = map[string]bool{"int": true, "iint": true, "iiint": true, "oint": true}

// functions are upright operator names taking the following atom as argument.
var functions = map[string]bool{
	"sin": true, "cos": true, "tan": true, "cot": true, "sec": true, "csc": true,
	"arcsin": true, "arccos": true, "arctan": true, "sinh": true, "cosh": true,
	"tanh": true, "coth": true, "log": true, "ln": true, "lg": true, "exp": true,
	"det": true, "dim": true, "ker": true, "gcd": true, "deg": true, "arg": true,
	"hom": true, "Pr": true,
}

// limitFunctions take their subscript underneath.
var limitFunctions = map[string]bool{
	"lim": true, "max": true, "min": true, "sup": true, "inf": true,
	"limsup": true, "liminf": true, "argmax": true, "argmin": true,
}

// accents map to combining characters.
var accents = map[string]string{
	"hat": "̂", "widehat": "̂", "bar": "̅", "vec": "⃗",
	"dot": "̇", "ddot": "̈", "tilde": "̃", "widetilde": "̃",
	"check": "̌", "breve": "̆", "acute": "́", "grave": "̀",
	"overrightarrow": "⃗",
}

// spacing commands produce literal spaces.
var spacing = map[string]string{
	",": " ", ":": " ", ";": " ", " ": " ", "quad": " ",
	"qquad": "  ", "enspace": " ", "thinspace": " ",
	"!": "",
}

// ignored commands change sizing or numbering only.
var ignored = map[string]bool{
	"displaystyle": true, "textstyle": true, "scriptstyle": true,
	"scriptscriptstyle": true, "limits": true, "nolimits": true,
	"nonumber": true, "notag": true, "big": true, "Big": true, "bigg": true,
	"Bigg": true, "bigl": true, "bigr": true, "Bigl": true, "Bigr": true,
	"biggl": true, "biggr": true, "Biggl": true, "Biggr": true, "middle": true,
}

// delimiterCommands are accepted after \left and \right.
var delimiterCommands = map[string]string{
	"{": "{", "}": "}", "|": "‖", "langle": "⟨", "rangle": "⟩",
	"lfloor": "⌊", "rfloor": "⌋", "lceil": "⌈", "rceil": "⌉",
	"lbrace": "{", "rbrace": "}", "vert": "|", "Vert": "‖",
	"lvert": "|", "rvert": "|", "lVert": "‖", "rVert": "‖",
}

// charReplacements normalize ASCII operators to their math glyphs.
var charReplacements = map[string]string{
	"-": "−", "*": "∗", "~": " ",
}

// environments maps matrix-like environments to their fences.
var environments = map[string][2]string{
	"matrix":      {"", ""},
	"smallmatrix": {"", ""},
	"pmatrix":     {"(", ")"},
	"bmatrix":     {"[", "]"},
	"Bmatrix":     {"{", "}"},
	"vmatrix":     {"|", "|"},
	"Vmatrix":     {"‖", "‖"},
	"array":       {"", ""},
}

// equationEnvironments render as equation arrays.
var equationEnvironments = map[string]bool{
	"aligned": true, "align": true, "gathered": true, "split": true,
	"cases": true, "eqnarray": true, "gather": true,
}
