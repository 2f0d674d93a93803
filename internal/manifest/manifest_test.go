package manifest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestParse_FullFunction(t *testing.T) {
	t.Parallel()

	src := `
		function "BBANDS" {
			group  = "Overlap Studies"
			hint   = "Bollinger Bands"
			kernel = "bbands"

			input "inReal" {
				type = "real"
			}

			opt_input "optInTimePeriod" {
				type         = "integer_range"
				display_name = "Time Period"
				hint         = "Number of period"
				default      = 5
				minimum      = 2
				maximum      = 100000
			}

			opt_input "optInNbDevUp" {
				type         = "real_range"
				display_name = "Deviations up"
				default      = 2.0
				minimum      = -3.0e37
				maximum      = 3.0e37
				precision    = 2
			}

			opt_input "optInMAType" {
				type         = "integer_list"
				display_name = "MA Type"
				default      = 0

				choice "Sma" {
					value = 0
				}
				choice "Ema" {
					value = 1
				}
			}

			output "outRealUpperBand" {
				type  = "real"
				flags = ["upper_limit"]
			}
			output "outRealMiddleBand" {
				type  = "real"
				flags = ["line"]
			}
			output "outRealLowerBand" {
				type  = "real"
				flags = ["lower_limit"]
			}
		}
	`

	functions, err := Parse(context.Background(), "bbands.hcl", []byte(src))
	require.NoError(t, err)
	require.Len(t, functions, 1)

	fn := functions[0]
	require.Equal(t, "BBANDS", fn.Name)
	require.Equal(t, "Overlap Studies", fn.Group)
	require.Equal(t, "Bollinger Bands", fn.Hint)
	require.Equal(t, "bbands", fn.Kernel)

	require.Len(t, fn.Inputs, 1)
	require.Equal(t, "inReal", fn.Inputs[0].Name)
	require.Equal(t, KindReal, fn.Inputs[0].Kind)

	require.Len(t, fn.OptInputs, 3)
	period := fn.OptInputs[0]
	require.Equal(t, "optInTimePeriod", period.Name)
	require.Equal(t, KindIntegerRange, period.Kind)
	require.Equal(t, "Time Period", period.DisplayName)
	require.True(t, period.Default.RawEquals(cty.NumberIntVal(5)))
	require.True(t, period.Minimum.RawEquals(cty.NumberIntVal(2)))

	dev := fn.OptInputs[1]
	require.Equal(t, KindRealRange, dev.Kind)
	require.Equal(t, 2, dev.Precision)

	maType := fn.OptInputs[2]
	require.Equal(t, KindIntegerList, maType.Kind)
	require.Len(t, maType.Choices, 2)
	require.Equal(t, "Sma", maType.Choices[0].Label)
	require.Equal(t, "Ema", maType.Choices[1].Label)

	require.Len(t, fn.Outputs, 3)
	require.Equal(t, "outRealUpperBand", fn.Outputs[0].Name)
	require.Equal(t, []string{"upper_limit"}, fn.Outputs[0].Flags)
}

func TestParse_PriceInputFlags(t *testing.T) {
	t.Parallel()

	src := `
		function "AVGPRICE" {
			group  = "Price Transform"
			kernel = "avgprice"

			input "inPriceOHLC" {
				type  = "price"
				flags = ["open", "high", "low", "close"]
			}

			output "outReal" {
				type = "real"
			}
		}
	`

	functions, err := Parse(context.Background(), "avgprice.hcl", []byte(src))
	require.NoError(t, err)
	require.Len(t, functions, 1)
	require.Equal(t, KindPrice, functions[0].Inputs[0].Kind)
	require.Equal(t, []string{"open", "high", "low", "close"}, functions[0].Inputs[0].Flags)
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		src         string
		errContains string
	}{
		{
			name: "malformed HCL",
			src: `
				function "SMA" {
					group = "Overlap Studies"
			`,
			errContains: "failed to parse manifest",
		},
		{
			name: "missing kernel",
			src: `
				function "SMA" {
					group = "Overlap Studies"
					output "outReal" {
						type = "real"
					}
				}
			`,
			errContains: "kernel",
		},
		{
			name: "missing outputs",
			src: `
				function "SMA" {
					group  = "Overlap Studies"
					kernel = "sma"
				}
			`,
			errContains: "at least one 'output' block",
		},
		{
			name: "duplicate function",
			src: `
				function "SMA" {
					group  = "Overlap Studies"
					kernel = "sma"
					output "outReal" {
						type = "real"
					}
				}
				function "SMA" {
					group  = "Overlap Studies"
					kernel = "sma"
					output "outReal" {
						type = "real"
					}
				}
			`,
			errContains: "already been defined",
		},
		{
			name: "unknown input type",
			src: `
				function "SMA" {
					group  = "Overlap Studies"
					kernel = "sma"
					input "inReal" {
						type = "complex"
					}
					output "outReal" {
						type = "real"
					}
				}
			`,
			errContains: "Invalid input type",
		},
		{
			name: "range parameter with choices",
			src: `
				function "SMA" {
					group  = "Overlap Studies"
					kernel = "sma"
					opt_input "optInTimePeriod" {
						type    = "integer_range"
						default = 30
						choice "Sma" {
							value = 0
						}
					}
					output "outReal" {
						type = "real"
					}
				}
			`,
			errContains: "range-typed",
		},
		{
			name: "list parameter without choices",
			src: `
				function "SMA" {
					group  = "Overlap Studies"
					kernel = "sma"
					opt_input "optInMAType" {
						type    = "integer_list"
						default = 0
					}
					output "outReal" {
						type = "real"
					}
				}
			`,
			errContains: "must declare at least one 'choice' block",
		},
		{
			name: "missing default",
			src: `
				function "SMA" {
					group  = "Overlap Studies"
					kernel = "sma"
					opt_input "optInTimePeriod" {
						type = "integer_range"
					}
					output "outReal" {
						type = "real"
					}
				}
			`,
			errContains: "default",
		},
		{
			name: "unknown output type",
			src: `
				function "SMA" {
					group  = "Overlap Studies"
					kernel = "sma"
					output "outReal" {
						type = "string"
					}
				}
			`,
			errContains: "Invalid output type",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse(context.Background(), "test.hcl", []byte(tc.src))
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.errContains)
		})
	}
}

func TestCoerce_Scalars(t *testing.T) {
	t.Parallel()

	f, err := CoerceFloat(cty.NumberFloatVal(2.5))
	require.NoError(t, err)
	require.Equal(t, 2.5, f)

	n, err := CoerceInt(cty.NumberIntVal(30))
	require.NoError(t, err)
	require.Equal(t, int32(30), n)

	_, err = CoerceInt(cty.NumberFloatVal(2.5))
	require.Error(t, err)

	_, err = CoerceFloat(cty.StringVal("not a number"))
	require.Error(t, err)
}
