// Package domain models MODIS active fire detections over India.
//
// # Data Source
//
// Observations come from the NASA FIRMS MODIS archive, exported as one CSV
// per year and named modis_<year>_India.csv. Each file is loaded as-is and
// every row is tagged with the year of the file it came from; the files are
// never merged on disk.
//
// # MODIS Conventions
//
// Brightness columns:
//
//	brightness  channel 21/22 brightness temperature in Kelvin
//	bright_t31  channel 31 brightness temperature in Kelvin
//
// Fire radiative power ("frp") is reported in megawatts. "scan" and "track"
// are the along-scan and along-track pixel sizes in kilometres.
//
// Confidence is a category (low, nominal, high). The classifier consumes it
// as an ordinal:
//
//	low=0  nominal=1  high=2
//
// Fire type ("type") is the MODIS inferred hot spot type:
//
//	0  presumed vegetation fire
//	1  active volcano
//	2  other static land source
//	3  offshore
//
// The prediction label table maps 0, 2 and 3. Class 1 is not mapped and is
// reported as "Unknown" together with any id outside the table. See
// [LabelForClass].
//
// # Missing Values
//
// Any column beyond the filter dimensions may be absent from a given file.
// [Dataset.Columns] records which ones were present so filters and charts
// can switch themselves off. Numeric cells that are empty or unparseable
// load as NaN and string cells as "".
package domain
