package debug

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

type debug struct {
	Naming bool
	Group  bool
	Emit   bool
}

var d *debug

func init() {
	d = &debug{}
	d.Naming = boolEnv("SUBENUM_DEBUG_NAMING")
	d.Group = boolEnv("SUBENUM_DEBUG_GROUP")
	d.Emit = boolEnv("SUBENUM_DEBUG_EMIT")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Naming() bool {
	return d.Naming
}
func Group() bool {
	return d.Group
}
func Emit() bool {
	return d.Emit
}

func Logf(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, msg, args...)
}

func LogAny(v any) {
	d, err := json.Marshal(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", v)
		return
	}
	os.Stderr.Write(d)
	os.Stderr.Write([]byte{'\n'})
}
