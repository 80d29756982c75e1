package manifest

// fileSchema is the YAML shape of an artifact manifest.
//
//	project: demo
//	libraries:
//	  - key: com.example.foo
//	    aar:
//	      path: libs/foo.aar
//	    jar:
//	      path: libs/foo.jar
//	  - key: com.example.bar
//	    aar:
//	      remote: outputs/bar.aar
//	      digest: sha256:...
//
// Local paths are resolved relative to the manifest file. Remote references
// name a content key within the remote output tree and must carry a digest.
type fileSchema struct {
	Project   string          `yaml:"project"`
	Libraries []librarySchema `yaml:"libraries"`
}

type librarySchema struct {
	Key string          `yaml:"key"`
	Aar *artifactSchema `yaml:"aar"`
	Jar *artifactSchema `yaml:"jar"`
}

type artifactSchema struct {
	Path   string `yaml:"path"`
	Remote string `yaml:"remote"`
	Digest string `yaml:"digest"`
}
