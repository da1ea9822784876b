package dual

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"io"
	"sync"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// Dual is the policy/value network: a shared fully-connected trunk feeding
// two heads, one predicting a move-policy distribution over ActionSpace
// moves, the other a scalar position value in [-1, 1]. The graph shape is
// fixed at construction time to Config.BatchSize rows; Infer builds its own
// small forward-only graph per call rather than running single examples
// through the training graph.
type Dual struct {
	Config

	g          *G.ExprGraph
	input      *G.Node
	policyY    *G.Node
	valueY     *G.Node
	policyOut  *G.Node
	valueOut   *G.Node
	cost       *G.Node
	learnables G.Nodes

	vm     G.VM
	solver G.Solver
}

// Dual satisfies Dualer.
func (d *Dual) Dual() *Dual { return d }

// New builds the training graph. Init must be called before Train or before
// the weights hold anything but their random initialization.
func New(conf Config) *Dual {
	d := &Dual{Config: conf}
	d.build()
	return d
}

func (d *Dual) build() {
	g := G.NewGraph()
	d.g = g

	dt := tensor.Float32
	d.input = G.NewMatrix(g, dt, G.WithShape(d.BatchSize, d.Features), G.WithName("input"), G.WithInit(G.Zeroes()))

	x := d.input
	in := d.Features
	for l := 0; l < d.SharedLayers; l++ {
		w := G.NewMatrix(g, dt, G.WithShape(in, d.FC), G.WithName(fmt.Sprintf("shared_w%d", l)), G.WithInit(G.GlorotN(1.0)))
		b := G.NewVector(g, dt, G.WithShape(d.FC), G.WithName(fmt.Sprintf("shared_b%d", l)), G.WithInit(G.Zeroes()))
		d.learnables = append(d.learnables, w, b)

		xw := G.Must(G.Mul(x, w))
		xwb := G.Must(G.BroadcastAdd(xw, b, nil, []byte{0}))
		x = G.Must(G.Rectify(xwb))
		in = d.FC
	}

	pw := G.NewMatrix(g, dt, G.WithShape(in, d.ActionSpace), G.WithName("policy_w"), G.WithInit(G.GlorotN(1.0)))
	pb := G.NewVector(g, dt, G.WithShape(d.ActionSpace), G.WithName("policy_b"), G.WithInit(G.Zeroes()))
	d.learnables = append(d.learnables, pw, pb)
	pLogits := G.Must(G.BroadcastAdd(G.Must(G.Mul(x, pw)), pb, nil, []byte{0}))
	d.policyOut = G.Must(G.SoftMax(pLogits))

	vw1 := G.NewMatrix(g, dt, G.WithShape(in, d.K), G.WithName("value_w1"), G.WithInit(G.GlorotN(1.0)))
	vb1 := G.NewVector(g, dt, G.WithShape(d.K), G.WithName("value_b1"), G.WithInit(G.Zeroes()))
	vw2 := G.NewMatrix(g, dt, G.WithShape(d.K, 1), G.WithName("value_w2"), G.WithInit(G.GlorotN(1.0)))
	vb2 := G.NewVector(g, dt, G.WithShape(1), G.WithName("value_b2"), G.WithInit(G.Zeroes()))
	d.learnables = append(d.learnables, vw1, vb1, vw2, vb2)

	vHidden := G.Must(G.Rectify(G.Must(G.BroadcastAdd(G.Must(G.Mul(x, vw1)), vb1, nil, []byte{0}))))
	vLogits := G.Must(G.BroadcastAdd(G.Must(G.Mul(vHidden, vw2)), vb2, nil, []byte{0}))
	d.valueOut = G.Must(G.Tanh(vLogits))

	if !d.FwdOnly {
		d.policyY = G.NewMatrix(g, dt, G.WithShape(d.BatchSize, d.ActionSpace), G.WithName("policy_target"), G.WithInit(G.Zeroes()))
		d.valueY = G.NewMatrix(g, dt, G.WithShape(d.BatchSize, 1), G.WithName("value_target"), G.WithInit(G.Zeroes()))

		logPolicy := G.Must(G.Log(G.Must(G.Add(d.policyOut, G.NewConstant(float32(1e-8))))))
		crossEnt := G.Must(G.Sum(G.Must(G.HadamardProd(d.policyY, logPolicy))))
		policyLoss := G.Must(G.Neg(G.Must(G.Div(crossEnt, G.NewConstant(float32(d.BatchSize))))))

		valueDiff := G.Must(G.Sub(d.valueOut, d.valueY))
		valueLoss := G.Must(G.Mean(G.Must(G.Square(valueDiff))))

		d.cost = G.Must(G.Add(policyLoss, valueLoss))
	}
}

// Init binds the graph to a tape machine and an Adam solver. On a
// forward-only graph built for Infer it skips the gradient (G.Grad) step.
func (d *Dual) Init() error {
	if d.g == nil {
		return fmt.Errorf("dual: graph not built")
	}
	if !d.FwdOnly {
		if _, err := G.Grad(d.cost, d.learnables...); err != nil {
			return fmt.Errorf("dual: grad: %w", err)
		}
	}
	d.vm = G.NewTapeMachine(d.g, G.BindDualValues(d.learnables...))
	d.solver = G.NewAdamSolver(G.WithLearnRate(0.001))
	return nil
}

// Train runs nniters gradient steps over each of batches row-slices of Xs
// (shape (BatchSize*batches, Features)), Policies (shape
// (BatchSize*batches, ActionSpace)) and Values (shape (BatchSize*batches)).
func Train(nn *Dual, Xs, Policies, Values *tensor.Dense, batches, nniters int) error {
	if nn.vm == nil {
		if err := nn.Init(); err != nil {
			return err
		}
	}
	rows := nn.BatchSize
	for b := 0; b < batches; b++ {
		start, end := b*rows, (b+1)*rows

		xSlice, err := Xs.Slice(sliceRange{start, end})
		if err != nil {
			return fmt.Errorf("dual: slice Xs: %w", err)
		}
		pSlice, err := Policies.Slice(sliceRange{start, end})
		if err != nil {
			return fmt.Errorf("dual: slice Policies: %w", err)
		}
		vSlice, err := Values.Slice(sliceRange{start, end})
		if err != nil {
			return fmt.Errorf("dual: slice Values: %w", err)
		}

		vDense, ok := vSlice.(*tensor.Dense)
		if !ok {
			return fmt.Errorf("dual: value slice is not dense")
		}
		if err := vDense.Reshape(rows, 1); err != nil {
			return fmt.Errorf("dual: reshape values: %w", err)
		}

		if err := G.Let(nn.input, xSlice); err != nil {
			return fmt.Errorf("dual: let input: %w", err)
		}
		if err := G.Let(nn.policyY, pSlice); err != nil {
			return fmt.Errorf("dual: let policy target: %w", err)
		}
		if err := G.Let(nn.valueY, vDense); err != nil {
			return fmt.Errorf("dual: let value target: %w", err)
		}

		for iter := 0; iter < nniters; iter++ {
			nn.vm.Reset()
			if err := nn.vm.RunAll(); err != nil {
				return fmt.Errorf("dual: run batch %d iter %d: %w", b, iter, err)
			}
			if err := nn.solver.Step(G.NodesToValueGrads(nn.learnables)); err != nil {
				return fmt.Errorf("dual: solver step: %w", err)
			}
		}
	}
	return nil
}

type sliceRange struct{ start, end int }

func (s sliceRange) Start() int { return s.start }
func (s sliceRange) End() int   { return s.end }
func (s sliceRange) Step() int  { return 1 }

// Inferer serves single-position forward passes. It is not safe for
// concurrent use; a tournament pool should hold one per worker goroutine.
type Inferer interface {
	Infer(a []float32) (policy []float32, value float32, err error)
	io.Closer
}

// ExecLogger exposes the last tape machine's trace, useful for debugging a
// stalled or NaN-producing forward pass.
type ExecLogger interface {
	ExecLog() string
}

// Infer builds a batch-of-one forward-only graph sharing nn's current
// weight values (copied at call time, so later Train calls on nn do not
// mutate an outstanding Inferer's predictions), and returns it wrapped as an
// Inferer. Multiple Inferers may run concurrently against the same Dual.
func Infer(nn *Dual, fwdOnly bool) (Inferer, error) {
	single := nn.Config
	single.BatchSize = 1
	single.FwdOnly = true
	snap := New(single)

	if len(snap.learnables) != len(nn.learnables) {
		return nil, fmt.Errorf("dual: learnable count mismatch building inferer")
	}
	for i, n := range nn.learnables {
		val, ok := n.Value().(tensor.Tensor)
		if !ok {
			return nil, fmt.Errorf("dual: learnable %q has no value yet", n.Name())
		}
		cloned := val.Clone().(tensor.Tensor)
		if err := G.Let(snap.learnables[i], cloned); err != nil {
			return nil, fmt.Errorf("dual: snapshot %q: %w", n.Name(), err)
		}
	}

	vm := G.NewTapeMachine(snap.g, G.BindDualValues(snap.learnables...))
	return &inferer{g: snap.g, input: snap.input, policyOut: snap.policyOut, valueOut: snap.valueOut, vm: vm}, nil
}

type inferer struct {
	mu        sync.Mutex
	g         *G.ExprGraph
	input     *G.Node
	policyOut *G.Node
	valueOut  *G.Node
	vm        G.VM
	log       string
}

func (inf *inferer) Infer(a []float32) (policy []float32, value float32, err error) {
	inf.mu.Lock()
	defer inf.mu.Unlock()

	backing := make([]float32, len(a))
	copy(backing, a)
	t := tensor.New(tensor.WithShape(1, len(a)), tensor.WithBacking(backing))
	if err = G.Let(inf.input, t); err != nil {
		return nil, 0, fmt.Errorf("dual: let single input: %w", err)
	}

	inf.vm.Reset()
	if err = inf.vm.RunAll(); err != nil {
		return nil, 0, fmt.Errorf("dual: infer run: %w", err)
	}
	if s, ok := inf.vm.(fmt.Stringer); ok {
		inf.log = s.String()
	}

	pVal, ok := inf.policyOut.Value().(tensor.Tensor)
	if !ok {
		return nil, 0, fmt.Errorf("dual: policy output has no value")
	}
	pData, ok := pVal.Data().([]float32)
	if !ok {
		return nil, 0, fmt.Errorf("dual: policy output not float32")
	}
	policy = make([]float32, len(pData))
	copy(policy, pData)

	vVal, ok := inf.valueOut.Value().(tensor.Tensor)
	if !ok {
		return nil, 0, fmt.Errorf("dual: value output has no value")
	}
	vData, ok := vVal.Data().([]float32)
	if !ok || len(vData) == 0 {
		return nil, 0, fmt.Errorf("dual: value output not float32")
	}
	value = vData[0]
	return policy, value, nil
}

func (inf *inferer) Close() error {
	if m, ok := inf.vm.(io.Closer); ok {
		return m.Close()
	}
	return nil
}

func (inf *inferer) ExecLog() string { return inf.log }

// gobDual is the serialized form of Dual: its config plus every learnable
// weight's flat data and shape, in build order. The graph itself (an
// ExprGraph of unexported fields and closures) is never encoded; GobDecode
// rebuilds it from Config and restores the weight values.
type gobDual struct {
	Config  Config
	Weights [][]float32
	Shapes  [][]int
}

func (d *Dual) GobEncode() ([]byte, error) {
	gd := gobDual{Config: d.Config}
	for _, n := range d.learnables {
		val, ok := n.Value().(tensor.Tensor)
		if !ok {
			return nil, fmt.Errorf("dual: learnable %q has no value to encode", n.Name())
		}
		data, ok := val.Data().([]float32)
		if !ok {
			return nil, fmt.Errorf("dual: learnable %q is not float32", n.Name())
		}
		flat := make([]float32, len(data))
		copy(flat, data)
		gd.Weights = append(gd.Weights, flat)
		gd.Shapes = append(gd.Shapes, []int(val.Shape()))
	}

	buf := new(bytes.Buffer)
	if err := gob.NewEncoder(buf).Encode(gd); err != nil {
		return nil, fmt.Errorf("dual: gob encode: %w", err)
	}
	return buf.Bytes(), nil
}

func (d *Dual) GobDecode(data []byte) error {
	var gd gobDual
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&gd); err != nil {
		return fmt.Errorf("dual: gob decode: %w", err)
	}
	if d.g == nil {
		d.Config = gd.Config
		d.build()
	}
	if len(gd.Weights) != len(d.learnables) {
		return fmt.Errorf("dual: decoded %d weight tensors, graph has %d learnables", len(gd.Weights), len(d.learnables))
	}
	for i, n := range d.learnables {
		t := tensor.New(tensor.WithShape(gd.Shapes[i]...), tensor.WithBacking(gd.Weights[i]))
		if err := G.Let(n, t); err != nil {
			return fmt.Errorf("dual: restore %q: %w", n.Name(), err)
		}
	}
	return nil
}
