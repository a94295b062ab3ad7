package distro

var defaultArchitectures = map[Type][]string{
	Debian: {"amd64", "arm32v5", "arm32v7", "arm64v8", "i386", "mips64le", "ppc64le", "s390x"},
	Alpine: {"amd64", "arm32v6", "arm32v7", "arm64v8", "i386", "ppc64le", "riscv64", "s390x"},
}

// DefaultArchitectures returns the architectures the official images build
// for a distribution family. The result is a fresh slice.
func DefaultArchitectures(t Type) []string {
	return append([]string(nil), defaultArchitectures[t]...)
}

// ArchitectureMap returns DefaultArchitectures for every supported family.
func ArchitectureMap() map[Type][]string {
	m := make(map[Type][]string, len(Types))
	for _, t := range Types {
		m[t] = DefaultArchitectures(t)
	}
	return m
}
