package config

var Presets = map[string]map[string]*Config{
	"combine2d": {
		"tutorial": {
			Network: "combine2d", Model: "lif", Dt: 0.001, Duration: 5.0, Neurons: 100,
		},
		"rate": {
			Network: "combine2d", Model: "lifrate", Dt: 0.001, Duration: 5.0, Neurons: 100,
		},
		"dense": {
			Network: "combine2d", Model: "lif", Dt: 0.001, Duration: 5.0, Neurons: 400,
		},
	},
	"commchannel": {
		"default": {
			Network: "commchannel", Model: "lif", Dt: 0.001, Duration: 2.0, Neurons: 100,
		},
		"sparse": {
			Network: "commchannel", Model: "lif", Dt: 0.001, Duration: 2.0, Neurons: 30,
		},
	},
	"square": {
		"default": {
			Network: "square", Model: "lif", Dt: 0.001, Duration: 6.5, Neurons: 100,
		},
	},
	"integrator": {
		"ramp": {
			Network: "integrator", Model: "lif", Dt: 0.001, Duration: 6.0, Neurons: 200,
		},
		"rate": {
			Network: "integrator", Model: "lifrate", Dt: 0.001, Duration: 6.0, Neurons: 200,
		},
	},
	"oscillator": {
		"cycle": {
			Network: "oscillator", Model: "lif", Dt: 0.001, Duration: 3.0, Neurons: 200,
		},
		"long": {
			Network: "oscillator", Model: "lif", Dt: 0.001, Duration: 10.0, Neurons: 200,
		},
	},
}

func GetPreset(network, preset string) *Config {
	networkPresets, ok := Presets[network]
	if !ok {
		return nil
	}
	cfg, ok := networkPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(network string) []string {
	networkPresets, ok := Presets[network]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(networkPresets))
	for name := range networkPresets {
		names = append(names, name)
	}
	return names
}
