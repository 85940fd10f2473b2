// Package analysis runs the complete thermal denaturation workflow on a
// measured dataset:
//
//   - load the CSV table (temperature / K, temperature / °C, signal)
//   - normalize the signal to the [0, 1] fraction column
//   - fit the two-state model to fraction versus Kelvin temperature
//   - store the model prediction as the fit column
//   - render the chart and export the augmented table when requested
//   - print the enthalpy and midpoint temperature
//
// A missing or unreadable data file is not an error: the analyzer prints
// "No data file found" and returns a Report with Loaded set to false.
//
// # Usage
//
//	a := analysis.NewAnalyzer(analysis.WithPlot("denaturation.png"))
//	report, err := a.Analyze("melt.csv")
//	fmt.Printf("tm = %.1f K\n", report.Fit.Params.Tm)
package analysis
