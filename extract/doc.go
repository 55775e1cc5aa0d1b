// Package extract builds a ClassDescriptor for a loaded class through the
// runtime's introspection interface.
//
// A descriptor lists the class's canonical name, its direct superclass, its
// directly implemented interfaces, and its declared methods and fields with
// decoded types and named modifiers. Extraction is all or nothing: any
// introspection failure or malformed type descriptor aborts it, and every
// local reference created along the way is deleted before returning.
package extract
