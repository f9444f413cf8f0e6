package model

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/sceneview/internal/logger"
)

// defaultDiffuse is the Kd of a material that sets none.
var defaultDiffuse = [3]float32{0.8, 0.8, 0.8}

// DecodeMTL parses a Wavefront material library. Only the terms the lit
// programs use are kept: Kd, Ks, Ns, map_Kd and map_Ks. Map options such as
// -s or -o are skipped; the last field is taken as the file.
func DecodeMTL(r io.Reader) (map[string]*Material, error) {
	materials := make(map[string]*Material)
	var cur *Material

	scanner := bufio.NewScanner(r)
	for line := 1; scanner.Scan(); line++ {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		key := strings.ToLower(fields[0])
		if key == "newmtl" {
			if len(fields) < 2 {
				return nil, fmt.Errorf("line %d: %w: newmtl without a name", line, ErrSyntax)
			}
			cur = &Material{Name: strings.Join(fields[1:], " "), Diffuse: defaultDiffuse}
			materials[cur.Name] = cur
			continue
		}
		if cur == nil {
			switch key {
			case "kd", "ks", "ns", "map_kd", "map_ks":
				return nil, fmt.Errorf("line %d: %w: %s before newmtl", line, ErrSyntax, fields[0])
			}
			continue
		}

		var err error
		switch key {
		case "kd":
			cur.Diffuse, err = parseVec3(fields[1:])
		case "ks":
			cur.Specular, err = parseVec3(fields[1:])
		case "ns":
			var ns [1]float32
			if len(fields) < 2 {
				err = fmt.Errorf("%w: Ns without a value", ErrSyntax)
			} else {
				err = parseFloats(fields[1:2], ns[:])
			}
			cur.Shininess = ns[0]
		case "map_kd":
			cur.DiffuseMap, err = mapFile(fields)
		case "map_ks":
			cur.SpecularMap, err = mapFile(fields)
		}
		// Ka, Ke, d, illum and the other terms are ignored.
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return materials, nil
}

func mapFile(fields []string) (string, error) {
	if len(fields) < 2 {
		return "", fmt.Errorf("%w: %s without a file", ErrSyntax, fields[0])
	}
	return fields[len(fields)-1], nil
}

// loadMaterials reads every library the mesh names, relative to dir. A
// missing library is logged and skipped so the mesh still draws with its
// fallback color; a malformed one is an error.
func loadMaterials(mesh *Mesh, dir string) error {
	mesh.Materials = make(map[string]*Material)
	for _, lib := range mesh.MaterialLibs {
		path := lib
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, lib)
		}

		materials, err := readMTL(path)
		if errors.Is(err, os.ErrNotExist) {
			logger.Warn("material library not found", zap.String("path", path))
			continue
		}
		if err != nil {
			return err
		}

		for name, m := range materials {
			m.DiffuseMap = resolveMap(filepath.Dir(path), m.DiffuseMap)
			m.SpecularMap = resolveMap(filepath.Dir(path), m.SpecularMap)
			mesh.Materials[name] = m
		}
	}

	for _, g := range mesh.Groups {
		if g.Material != "" && mesh.Materials[g.Material] == nil {
			logger.Warn("material not defined", zap.String("mesh", mesh.Name), zap.String("material", g.Material))
		}
	}
	return nil
}

func readMTL(path string) (map[string]*Material, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	materials, err := DecodeMTL(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return materials, nil
}

func resolveMap(dir, file string) string {
	if file == "" || filepath.IsAbs(file) {
		return file
	}
	// Exporters on Windows write backslashes.
	return filepath.Join(dir, filepath.FromSlash(strings.ReplaceAll(file, `\`, "/")))
}
