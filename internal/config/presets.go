package config

var Presets = map[string]map[string]*Config{
	"sine": {
		"gentle": {
			Integrand: "sine", P: 2, Atol: 1e-6, Rtol: 1e-6, TFinal: 1.0,
			Params: map[string]float64{"freq": 5},
		},
		"oscillatory": {
			Integrand: "sine", P: 2, Atol: 1e-8, Rtol: 1e-8, TFinal: 1.0,
			Params: map[string]float64{"freq": 20},
		},
		"stiff": {
			Integrand: "sine", P: 3, Atol: 1e-10, Rtol: 1e-10, TFinal: 1.0,
			Params: map[string]float64{"freq": 80},
		},
	},
	"gauss": {
		"bump": {
			Integrand: "gauss", P: 2, Atol: 1e-8, Rtol: 1e-8, TFinal: 1.0,
			Params: map[string]float64{"center": 0.5, "width": 0.05},
		},
		"needle": {
			Integrand: "gauss", P: 2, Atol: 1e-10, Rtol: 1e-10, TFinal: 1.0,
			Params: map[string]float64{"center": 0.5, "width": 0.005},
		},
	},
	"circle": {
		"loop": {
			Integrand: "circle", P: 2, Atol: 1e-8, Rtol: 1e-8, TFinal: 1.0,
			Params: map[string]float64{"radius": 1},
		},
		"coarse": {
			Integrand: "circle", P: 1, Atol: 1e-4, Rtol: 1e-4, TFinal: 1.0,
			MinSpacing: 0.05, Params: map[string]float64{"radius": 1},
		},
	},
	"muller_brown": {
		"segment": {
			Integrand: "muller_brown", P: 2, Atol: 1e-6, Rtol: 1e-6, TFinal: 1.0,
		},
		"tight": {
			Integrand: "muller_brown", P: 3, Atol: 1e-9, Rtol: 1e-9, TFinal: 1.0,
		},
	},
}

func GetPreset(integrand, preset string) *Config {
	group, ok := Presets[integrand]
	if !ok {
		return nil
	}
	cfg, ok := group[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(integrand string) []string {
	group, ok := Presets[integrand]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(group))
	for name := range group {
		names = append(names, name)
	}
	return names
}
