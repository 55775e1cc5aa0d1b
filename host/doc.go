// Package host exposes the bridge through a small host value model:
// symbols, strings, integers, conses and user pointers.
//
// A Module owns one runtime facade. Its methods take and return host
// values, check argument types, and turn failures into a Signal naming a
// host error symbol:
//
//	m := host.NewModule(&memvm.Launcher{})
//	m.Start(ctx, config.Default())
//	cls, _ := m.FindClass(host.String("java.lang.String"))
//	desc, _ := m.ClassStructure(m.Interner().Intern("java.lang.String"))
//	fmt.Println(host.Print(desc))
//
// Runtime exceptions surface as java-exception signals carrying the
// throwable handle, argument type errors as wrong-type-argument.
package host
