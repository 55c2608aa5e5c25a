package inibind

import (
	"fmt"
)

type settings struct {
	Host     string `ini:"host,section=web"`
	Port     int    `ini:"port,section=web"`
	Verbose  bool   `ini:"verbose,section=log"`
	Backends []int  `ini:"backend,section=web"`
}

func Example() {
	// An external loader parsed its file format down to raw strings.
	values := make(Values)
	values.Add("web", "host", "example.org")
	values.Add("web", "port", "1F90h")
	values.Add("web", "backend", "0x01", "0x02")
	values.Add("log", "verbose", "yes")

	var s settings
	binder := NewBinder()
	if err := binder.Bind(&s, values); err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(s.Host, s.Port, s.Verbose, s.Backends)

	// Writing back is lossy: typed values, canonical renderings.
	out, _ := binder.Export(&s)
	port, _ := out.Lookup("web", "port")
	fmt.Println(port[0])
	// Output:
	// example.org 8080 true [1 2]
	// 8080
}
