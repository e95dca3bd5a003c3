package benchmark

import (
	"testing"

	"github.com/dzonerzy/go-llvmopt/llvmopt"
)

// Category: table + parser hot paths

func driverOptions() []llvmopt.Option {
	opt := func(name string, kind llvmopt.Kind, prefixes ...string) llvmopt.Option {
		return llvmopt.Option{
			Name:     name,
			Prefixes: prefixes,
			Kind:     kind,
			Alias:    llvmopt.NoOption,
			Group:    llvmopt.NoOption,
		}
	}
	return []llvmopt.Option{
		opt("D", llvmopt.KindJoinedOrSeparate, "-"),
		opt("I", llvmopt.KindJoinedOrSeparate, "-"),
		opt("L", llvmopt.KindJoinedOrSeparate, "-"),
		opt("O", llvmopt.KindJoined, "-"),
		opt("W", llvmopt.KindJoined, "-"),
		opt("Wall", llvmopt.KindFlag, "-"),
		opt("Werror", llvmopt.KindFlag, "-"),
		opt("Wl,", llvmopt.KindCommaJoined, "-"),
		opt("c", llvmopt.KindFlag, "-"),
		opt("g", llvmopt.KindFlag, "-"),
		opt("help", llvmopt.KindFlag, "--", "-"),
		opt("o", llvmopt.KindSeparate, "-"),
		opt("std=", llvmopt.KindJoined, "--", "-"),
		opt("target=", llvmopt.KindJoined, "--"),
		opt("v", llvmopt.KindFlag, "-"),
	}
}

var driverArgs = []string{
	"-c", "-g", "-O2", "-Wall", "-Werror",
	"-Iinclude", "-I", "vendor/include", "-DNDEBUG",
	"-std=c11", "--target=x86_64-linux-gnu",
	"-Wl,-rpath,/usr/lib", "-o", "out.o", "main.c",
}

func BenchmarkTableNew(b *testing.B) {
	options := driverOptions()
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := llvmopt.New(options); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkMatcherSingleToken(b *testing.B) {
	table, err := llvmopt.New(driverOptions())
	if err != nil {
		b.Fatal(err)
	}
	matcher := llvmopt.NewMatcher(table)
	args := []string{"-Iinclude"}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		matcher.Match(args, 0)
	}
}

func BenchmarkParseDriverVector(b *testing.B) {
	table, err := llvmopt.New(driverOptions())
	if err != nil {
		b.Fatal(err)
	}
	parser := llvmopt.NewParser(table)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := parser.Parse(driverArgs); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParseUnknownHeavy(b *testing.B) {
	table, err := llvmopt.New(driverOptions())
	if err != nil {
		b.Fatal(err)
	}
	parser := llvmopt.NewParser(table)
	args := []string{"-fno-such-thing", "-mllvm-nope", "--what", "-zzz", "input.c"}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := parser.Parse(args); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRender(b *testing.B) {
	table, err := llvmopt.New(driverOptions())
	if err != nil {
		b.Fatal(err)
	}
	result, err := llvmopt.NewParser(table).Parse(driverArgs)
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		result.Render()
	}
}

func BenchmarkReconstruct(b *testing.B) {
	table, err := llvmopt.New(driverOptions())
	if err != nil {
		b.Fatal(err)
	}
	result, err := llvmopt.NewParser(table).Parse(driverArgs)
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		result.Reconstruct()
	}
}

func BenchmarkParseParallel(b *testing.B) {
	table, err := llvmopt.New(driverOptions())
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		parser := llvmopt.NewParser(table)
		for pb.Next() {
			if _, err := parser.Parse(driverArgs); err != nil {
				b.Fatal(err)
			}
		}
	})
}
