package cycleeval_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/signalforge/graphengine/cycleeval"
	"github.com/signalforge/graphengine/graphbuilder"
	"github.com/signalforge/graphengine/signal"
)

var _ = Describe("worked scenarios (spec.md §8)", func() {
	constantInputs := func(vals ...signal.Signal) cycleeval.InputGenerator {
		return func(int) cycleeval.CycleInputs { return cycleeval.CycleInputs{Inputs: vals} }
	}

	It("passes a signal through unchanged", func() {
		g := graphbuilder.PassThrough()
		res, err := cycleeval.EvaluateAllCycles(g.Nodes, g.Wires, nil, constantInputs(33), 4, nil)
		Expect(err).NotTo(HaveOccurred())
		for _, out := range res.Outputs {
			Expect(out).To(Equal([]signal.Signal{33}))
		}
	})

	It("inverts a signal through a single inverter", func() {
		g := graphbuilder.InvertChain(1)
		res, err := cycleeval.EvaluateAllCycles(g.Nodes, g.Wires, nil, constantInputs(25), 2, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Outputs[0]).To(Equal([]signal.Signal{-25}))
	})

	It("restores the original signal through a double inverter", func() {
		g := graphbuilder.InvertChain(2)
		res, err := cycleeval.EvaluateAllCycles(g.Nodes, g.Wires, nil, constantInputs(25), 2, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Outputs[0]).To(Equal([]signal.Signal{25}))
	})

	It("sums two inputs through an adder", func() {
		g := graphbuilder.Adder()
		gen := func(int) cycleeval.CycleInputs { return cycleeval.CycleInputs{Inputs: []signal.Signal{60, -15}} }
		res, err := cycleeval.EvaluateAllCycles(g.Nodes, g.Wires, nil, gen, 1, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Outputs[0]).To(Equal([]signal.Signal{45}))
	})

	It("splits one input evenly across two outputs", func() {
		g := graphbuilder.Splitter()
		res, err := cycleeval.EvaluateAllCycles(g.Nodes, g.Wires, nil, constantInputs(80), 1, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Outputs[0]).To(Equal([]signal.Signal{40, 40}))
	})

	It("holds a feedback scale loop at the literal scenario's 0,0,0,0", func() {
		// Literal topology: CP0 -> scale.A, scale.out -> invert -> scale.X
		// (knob port), invert -> CP0; A = 0, cross-cycle initial X = 0.
		g := graphbuilder.FeedbackInvertLoop("scale")
		res, err := cycleeval.EvaluateAllCycles(g.Nodes, g.Wires, nil, constantInputs(0), 4, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Outputs).To(Equal([][]signal.Signal{{0}, {0}, {0}, {0}}))
	})

	It("oscillates a feedback amplify loop through the literal scenario's -100,0,-100,0", func() {
		// Same literal topology with "amplify" and A = 100.
		g := graphbuilder.FeedbackInvertLoop("amplify")
		res, err := cycleeval.EvaluateAllCycles(g.Nodes, g.Wires, nil, constantInputs(100), 4, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Outputs).To(Equal([][]signal.Signal{{-100}, {0}, {-100}, {0}}))
	})

	It("lags the input by one cycle through a memory loop", func() {
		g := graphbuilder.MemoryLoop()
		vals := []signal.Signal{1, 2, 3}
		gen := func(c int) cycleeval.CycleInputs { return cycleeval.CycleInputs{Inputs: []signal.Signal{vals[c]}} }
		res, err := cycleeval.EvaluateAllCycles(g.Nodes, g.Wires, nil, gen, len(vals), nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Outputs[1]).To(Equal([]signal.Signal{vals[0]}))
		Expect(res.Outputs[2]).To(Equal([]signal.Signal{vals[1]}))
	})

	It("holds a seamless memory loop at 42 across the literal 256-cycle scenario", func() {
		g := graphbuilder.MemoryLoop()
		res, err := cycleeval.EvaluateAllCycles(g.Nodes, g.Wires, nil, constantInputs(42), 256, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Outputs).To(HaveLen(256))
		for _, out := range res.Outputs {
			Expect(out).To(Equal([]signal.Signal{42}))
		}
	})
})
