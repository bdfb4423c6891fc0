// curvecalc calibrates a curve from quoted market rates and evaluates it.
//
// Input is a JSON object or array of objects, from -input or stdin. Quotes
// are percent strings ("2.375" means 2.375%) so upstream systems can pass
// exact decimals. Output mirrors the input shape.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/meenmo/termstruct/bootstrap"
	"github.com/meenmo/termstruct/curve"
	"github.com/meenmo/termstruct/instrument"
	"github.com/meenmo/termstruct/monotoneconvex"
	"github.com/meenmo/termstruct/rate"
	"github.com/meenmo/termstruct/smithwilson"
)

type curveInput struct {
	TaskID string `json:"task_id,omitempty"`

	// Method is bootstrap, smithwilson or monotoneconvex.
	Method string `json:"method"`
	// QuoteType is zero, par, cmt, ois or forward. monotoneconvex accepts
	// only zero (continuously compounded); smithwilson zero and par.
	QuoteType  string    `json:"quote_type"`
	Quotes     []string  `json:"quotes"` // percent, e.g. "2.375"
	Maturities []float64 `json:"maturities"`
	// Frequency is the payment frequency of par quotes (default 2).
	Frequency     int    `json:"frequency,omitempty"`
	Interpolation string `json:"interpolation,omitempty"` // bootstrap: quadratic (default) or linear

	// Smith-Wilson parameters; UFR is a percent string like the quotes.
	UFR   string  `json:"ufr,omitempty"`
	Alpha float64 `json:"alpha,omitempty"`

	DiscountTimes []float64 `json:"discount_times,omitempty"`
	ZeroTimes     []float64 `json:"zero_times,omitempty"`
	ForwardTimes  []float64 `json:"forward_times,omitempty"`
	ParTimes      []float64 `json:"par_times,omitempty"`
	ParFrequency  int       `json:"par_frequency,omitempty"`
}

type point struct {
	Time  float64 `json:"time"`
	Value float64 `json:"value"`
}

type curveOutput struct {
	TaskID    string  `json:"task_id,omitempty"`
	Method    string  `json:"method,omitempty"`
	Discounts []point `json:"discounts,omitempty"`
	Zeros     []point `json:"zeros,omitempty"`     // continuously compounded
	Forwards  []point `json:"forwards,omitempty"`  // annual forward over the next year
	Pars      []point `json:"pars,omitempty"`      // par coupon at the quote frequency
	Error     string  `json:"error,omitempty"`
}

var log = logrus.New()

func main() {
	inputPath := flag.String("input", "", "JSON input path (reads stdin if omitted)")
	verbose := flag.Bool("v", false, "Log calibration diagnostics to stderr")
	help := flag.Bool("h", false, "Show help")
	flag.BoolVar(help, "help", false, "Show help")
	flag.Parse()

	if *help {
		fmt.Fprintln(os.Stderr, "Usage: curvecalc -input <path>")
		fmt.Fprintln(os.Stderr, "Calibrate a discount curve from quotes and evaluate it at requested times.")
		return
	}

	log.SetOutput(os.Stderr)
	log.SetLevel(logrus.WarnLevel)
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	path := strings.TrimSpace(*inputPath)
	if path == "" {
		if stat, err := os.Stdin.Stat(); err == nil && (stat.Mode()&os.ModeCharDevice) != 0 {
			fmt.Fprintln(os.Stderr, "Usage: curvecalc -input <path>")
			os.Exit(2)
		}
	}

	raw, err := readInput(path)
	if err != nil {
		exitError(fmt.Sprintf("read input: %v", err))
	}

	inputs, isArray, err := parseInputs(raw)
	if err != nil {
		exitError(fmt.Sprintf("parse JSON: %v", err))
	}

	hadError := false
	outputs := make([]curveOutput, 0, len(inputs))
	for _, in := range inputs {
		out, err := process(in)
		if err != nil {
			hadError = true
			log.WithError(err).WithField("task_id", in.TaskID).Warn("task failed")
			outputs = append(outputs, curveOutput{TaskID: in.TaskID, Error: err.Error()})
			continue
		}
		outputs = append(outputs, *out)
	}

	if isArray {
		b, _ := json.Marshal(outputs)
		fmt.Println(string(b))
	} else {
		b, _ := json.Marshal(outputs[0])
		fmt.Println(string(b))
	}

	if hadError {
		os.Exit(1)
	}
}

func process(in curveInput) (*curveOutput, error) {
	quotes, err := parsePercents(in.Quotes)
	if err != nil {
		return nil, err
	}

	c, err := calibrate(in, quotes)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"task_id": in.TaskID,
		"method":  in.Method,
		"quotes":  len(quotes),
	}).Debug("calibrated")

	out := &curveOutput{TaskID: in.TaskID, Method: in.Method}
	for _, t := range in.DiscountTimes {
		out.Discounts = append(out.Discounts, point{t, c.Discount(t)})
	}
	for _, t := range in.ZeroTimes {
		z := curve.Zero(c, t).Convert(rate.Continuous())
		out.Zeros = append(out.Zeros, point{t, z.Value()})
	}
	for _, t := range in.ForwardTimes {
		out.Forwards = append(out.Forwards, point{t, curve.ForwardAt(c, t).Value()})
	}
	parFreq := in.ParFrequency
	if parFreq <= 0 {
		parFreq = 2
	}
	for _, t := range in.ParTimes {
		out.Pars = append(out.Pars, point{t, curve.Par(c, t, parFreq).Value()})
	}
	return out, nil
}

func calibrate(in curveInput, quotes []float64) (curve.Curve, error) {
	if len(quotes) != len(in.Maturities) {
		return nil, fmt.Errorf("%d quotes vs %d maturities", len(quotes), len(in.Maturities))
	}
	frequency := in.Frequency
	if frequency <= 0 {
		frequency = 2
	}

	switch in.Method {
	case "bootstrap":
		opts, err := interpolationOptions(in.Interpolation)
		if err != nil {
			return nil, err
		}
		switch in.QuoteType {
		case "zero":
			return bootstrap.ZeroYields(quotes, in.Maturities, opts...)
		case "par":
			rates := make([]rate.Rate, len(quotes))
			for i, y := range quotes {
				rates[i] = rate.NewPeriodic(y, frequency)
			}
			return bootstrap.Par(rates, in.Maturities, opts...)
		case "cmt":
			return bootstrap.CMT(quotes, in.Maturities, opts...)
		case "ois":
			return bootstrap.OIS(quotes, in.Maturities, opts...)
		case "forward":
			return bootstrap.Forward(quotes, in.Maturities, opts...)
		default:
			return nil, fmt.Errorf("unsupported quote_type %q for bootstrap", in.QuoteType)
		}

	case "smithwilson":
		ufr, err := parsePercent(in.UFR)
		if err != nil {
			return nil, fmt.Errorf("invalid ufr: %v", err)
		}
		switch in.QuoteType {
		case "zero":
			instruments := make([]instrument.Quote, len(quotes))
			for i, y := range quotes {
				instruments[i] = instrument.ZCBYield(y, in.Maturities[i])
			}
			return smithwilson.FromQuotes(instruments, ufr, in.Alpha)
		case "par":
			return smithwilson.FromParSwaps(quotes, in.Maturities, frequency, ufr, in.Alpha)
		default:
			return nil, fmt.Errorf("unsupported quote_type %q for smithwilson", in.QuoteType)
		}

	case "monotoneconvex":
		if in.QuoteType != "zero" {
			return nil, fmt.Errorf("unsupported quote_type %q for monotoneconvex", in.QuoteType)
		}
		return monotoneconvex.New(quotes, in.Maturities)

	default:
		return nil, fmt.Errorf("unsupported method %q", in.Method)
	}
}

func interpolationOptions(name string) ([]bootstrap.Option, error) {
	switch name {
	case "", "quadratic":
		return nil, nil
	case "linear":
		return []bootstrap.Option{bootstrap.WithInterpolator(bootstrap.Linear)}, nil
	default:
		return nil, fmt.Errorf("unsupported interpolation %q", name)
	}
}

// parsePercent converts a percent string to a fraction through decimal
// arithmetic, so "2.375" becomes exactly 0.02375 rather than the nearest
// float product.
func parsePercent(s string) (float64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	v, _ := d.Div(decimal.NewFromInt(100)).Float64()
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("percent %q out of range", s)
	}
	return v, nil
}

func parsePercents(ss []string) ([]float64, error) {
	out := make([]float64, len(ss))
	for i, s := range ss {
		v, err := parsePercent(s)
		if err != nil {
			return nil, fmt.Errorf("invalid quote %q: %v", s, err)
		}
		out[i] = v
	}
	return out, nil
}

func readInput(path string) ([]byte, error) {
	if path != "" {
		return os.ReadFile(path)
	}
	return io.ReadAll(os.Stdin)
}

func parseInputs(raw []byte) ([]curveInput, bool, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, false, fmt.Errorf("empty input")
	}
	if trimmed[0] == '[' {
		var inputs []curveInput
		if err := json.Unmarshal(trimmed, &inputs); err != nil {
			return nil, true, err
		}
		if len(inputs) == 0 {
			return nil, true, fmt.Errorf("empty input array")
		}
		return inputs, true, nil
	}
	var input curveInput
	if err := json.Unmarshal(trimmed, &input); err != nil {
		return nil, false, err
	}
	return []curveInput{input}, false, nil
}

func exitError(msg string) {
	b, _ := json.Marshal(curveOutput{Error: msg})
	fmt.Println(string(b))
	os.Exit(1)
}
