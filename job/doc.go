// Package job turns a YAML job description into a closure run.
//
// A job names a basic algebra (built-in, file or inline), an optional power,
// the generators, and the closure options: constraints, term tracking, a
// target, a homomorphism to check, operations to find, and resource limits.
// A job with operations to find and no generators is a clone membership
// search (closure.FindInClone).
//
// Load decodes and validates; errors match ErrDecode, ErrInvalid or
// ErrAlgebraSource. Run executes; its errors are those of the closure package.
package job
