// Package csv provides a streaming CSV reader built on flowcsv's
// tokenizer core.
//
// Reader reads one record at a time from an io.Reader with constant
// memory use regardless of input size: it never buffers more than the
// tokenizer's own growable buffer needs for the record currently in
// flight.
//
// # Example
//
//	file, err := os.Open("data.csv")
//	if err != nil {
//		// handle error
//	}
//	defer file.Close()
//
//	r := csv.NewReader(file)
//	for {
//		record, err := r.Read()
//		if err == io.EOF {
//			break
//		}
//		if err != nil {
//			// handle error
//		}
//		fmt.Println(record)
//	}
package csv
