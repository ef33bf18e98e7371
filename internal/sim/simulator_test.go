package sim_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"nefsim/internal/nef"
	"nefsim/internal/sim"
)

// rmseAfter measures tracking error between a probed series and a reference
// function of time, skipping the filter transient at the start.
func rmseAfter(times []float64, series []nef.Signal, dim int, ref func(t float64) float64, skip float64) float64 {
	sum, n := 0.0, 0
	for i, t := range times {
		if t < skip {
			continue
		}
		diff := series[i][dim] - ref(t)
		sum += diff * diff
		n++
	}
	return math.Sqrt(sum / float64(n))
}

func relay(model string, neurons int) *nef.Network {
	net := nef.NewNetwork("relay")
	net.AddNode("in", func(t float64) nef.Signal { return nef.Signal{math.Sin(2 * math.Pi * t)} }, 1)
	ens, _ := net.AddEnsemble("a", neurons, 1)
	ens.Model = model
	net.Connect("in", "a")
	net.Probe("in", nef.AttrOutput)
	net.Probe("a", nef.AttrDecoded)
	return net
}

var _ = Describe("Lowpass", func() {
	It("converges to a constant input", func() {
		f := sim.NewLowpass(0.01, 1)
		var out []float64
		for i := 0; i < 1000; i++ {
			out = f.Step([]float64{1}, 0.001)
		}
		Expect(out[0]).To(BeNumerically("~", 1.0, 1e-6))
	})

	It("passes input through when tau is zero", func() {
		f := sim.NewLowpass(0, 2)
		out := f.Step([]float64{3, -4}, 0.001)
		Expect(out).To(Equal([]float64{3, -4}))
	})
})

var _ = Describe("Simulator", func() {
	var cfg nef.Config

	BeforeEach(func() {
		cfg = nef.DefaultConfig()
		cfg.Seed = 42
	})

	It("rejects invalid configs", func() {
		s := sim.New(relay("lifrate", 50))
		_, err := s.Run(context.Background(), nef.Config{Dt: 0, Duration: 1})
		Expect(err).To(HaveOccurred())
		_, err = s.Run(context.Background(), nef.Config{Dt: 0.001, Duration: -1})
		Expect(err).To(HaveOccurred())
	})

	It("refuses to step before building", func() {
		s := sim.New(relay("lifrate", 50))
		_, err := s.Step(0.001)
		Expect(err).To(MatchError(nef.ErrNotBuilt))
	})

	It("stops when the context is cancelled", func() {
		s := sim.New(relay("lifrate", 50))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := s.Run(ctx, cfg)
		Expect(err).To(MatchError(context.Canceled))
	})

	It("samples every probe at every step by default", func() {
		s := sim.New(relay("lifrate", 50))
		res, err := s.Run(context.Background(), cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.StepsTaken).To(Equal(1000))
		Expect(res.Times).To(HaveLen(1000))
		Expect(res.Probes["in.output"]).To(HaveLen(1000))
		Expect(res.Probes["a.decoded"]).To(HaveLen(1000))
	})

	It("honours SampleEvery", func() {
		s := sim.New(relay("lifrate", 50))
		cfg.SampleEvery = 10
		res, err := s.Run(context.Background(), cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Times).To(HaveLen(100))
	})

	It("is deterministic for a fixed seed", func() {
		a, err := sim.New(relay("lifrate", 50)).Run(context.Background(), cfg)
		Expect(err).NotTo(HaveOccurred())
		b, err := sim.New(relay("lifrate", 50)).Run(context.Background(), cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(b.Probes["a.decoded"][500][0]).To(Equal(a.Probes["a.decoded"][500][0]))
	})

	It("reports a node emitting the wrong dimension", func() {
		net := nef.NewNetwork("bad")
		net.AddNode("in", func(t float64) nef.Signal { return nef.Signal{1, 2} }, 1)
		net.AddEnsemble("a", 20, 1)
		net.Connect("in", "a")
		s := sim.New(net)
		_, err := s.Run(context.Background(), cfg)
		Expect(err).To(MatchError(nef.ErrDimensionMismatch))
	})
})

var _ = Describe("Decoding accuracy", func() {
	ctx := context.Background()

	It("tracks a sine through a rate-neuron relay", func() {
		s := sim.New(relay("lifrate", 80))
		cfg := nef.Config{Dt: 0.001, Duration: 1.0, Seed: 1, SampleEvery: 1, ValidateState: true}
		res, err := s.Run(ctx, cfg)
		Expect(err).NotTo(HaveOccurred())

		rmse := rmseAfter(res.Times, res.Probes["a.decoded"], 0,
			func(t float64) float64 { return math.Sin(2 * math.Pi * t) }, 0.3)
		Expect(rmse).To(BeNumerically("<", 0.1))
	})

	It("tracks a sine through a spiking relay", func() {
		s := sim.New(relay("lif", 100))
		cfg := nef.Config{Dt: 0.001, Duration: 1.0, Seed: 1, SampleEvery: 1, ValidateState: true}
		res, err := s.Run(ctx, cfg)
		Expect(err).NotTo(HaveOccurred())

		rmse := rmseAfter(res.Times, res.Probes["a.decoded"], 0,
			func(t float64) float64 { return math.Sin(2 * math.Pi * t) }, 0.3)
		Expect(rmse).To(BeNumerically("<", 0.35))
	})

	It("represents two scalars in one two-dimensional ensemble", func() {
		net := nef.NewNetwork("pair")
		net.AddNode("sin", func(t float64) nef.Signal { return nef.Signal{math.Sin(t)} }, 1)
		net.AddNode("cos", func(t float64) nef.Signal { return nef.Signal{math.Cos(t)} }, 1)
		ens, _ := net.AddEnsemble("both", 200, 2)
		ens.Model = "lifrate"
		ens.Radius = 1.4

		c1, _ := net.Connect("sin", "both")
		c1.Transform = [][]float64{{1}, {0}}
		c2, _ := net.Connect("cos", "both")
		c2.Transform = [][]float64{{0}, {1}}
		net.Probe("both", nef.AttrDecoded)

		s := sim.New(net)
		cfg := nef.Config{Dt: 0.001, Duration: 2.0, Seed: 5, SampleEvery: 1, ValidateState: true}
		res, err := s.Run(ctx, cfg)
		Expect(err).NotTo(HaveOccurred())

		rmseSin := rmseAfter(res.Times, res.Probes["both.decoded"], 0, math.Sin, 0.3)
		rmseCos := rmseAfter(res.Times, res.Probes["both.decoded"], 1, math.Cos, 0.3)
		Expect(rmseSin).To(BeNumerically("<", 0.15))
		Expect(rmseCos).To(BeNumerically("<", 0.15))
	})

	It("decodes a function of the represented value", func() {
		net := nef.NewNetwork("square")
		net.AddNode("in", func(t float64) nef.Signal { return nef.Signal{math.Sin(t)} }, 1)
		a, _ := net.AddEnsemble("a", 100, 1)
		a.Model = "lifrate"
		b, _ := net.AddEnsemble("b", 100, 1)
		b.Model = "lifrate"

		net.Connect("in", "a")
		c, _ := net.Connect("a", "b")
		c.Function = func(x nef.Signal) nef.Signal { return nef.Signal{x[0] * x[0]} }
		c.FnDim = 1
		net.Probe("b", nef.AttrDecoded)

		s := sim.New(net)
		cfg := nef.Config{Dt: 0.001, Duration: 2.0, Seed: 9, SampleEvery: 1, ValidateState: true}
		res, err := s.Run(ctx, cfg)
		Expect(err).NotTo(HaveOccurred())

		rmse := rmseAfter(res.Times, res.Probes["b.decoded"], 0,
			func(t float64) float64 { v := math.Sin(t); return v * v }, 0.3)
		Expect(rmse).To(BeNumerically("<", 0.15))
	})
})

var _ = Describe("Sweep", func() {
	It("runs independent seeds in parallel", func() {
		net := relay("lifrate", 40)
		cfg := nef.Config{Dt: 0.001, Duration: 0.2, Seed: 100, SampleEvery: 1, ValidateState: true}

		results, err := sim.Sweep(context.Background(), net, cfg, 4, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(4))
		for _, r := range results {
			Expect(r.StepsTaken).To(Equal(200))
		}

		// Different seeds give different tuning, hence different decodes.
		Expect(results[0].Probes["a.decoded"][100][0]).NotTo(
			Equal(results[1].Probes["a.decoded"][100][0]))
	})
})
