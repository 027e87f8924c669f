package manifest

import (
	"strings"

	"github.com/novaforge/launcher/internal/model"
)

// legacyJVMArgs is the fixed JVM-argument prelude attached when a version
// layer only declares the legacy minecraftArguments string instead of the
// modern split arguments.game/arguments.jvm. Mirrors the original's
// LEGACY_JVM_ARGS: a rule-gated Windows 10 os.name/os.version argument, a
// rule-gated Windows heap-dump-path argument, then the always-present
// native-library-path/launcher-brand/classpath arguments.
func legacyJVMArgs() []model.VariableArgument {
	str := func(s string) model.VariableArgument { return model.VariableArgument{Simple: &s} }
	return []model.VariableArgument{
		{Complex: &model.ComplexArgument{
			Rules: []model.Rule{{Action: "allow", Os: &model.Os{Name: "windows", Version: "^10\\."}}},
			Value: model.ArgumentValue{Multiple: []string{
				"-Dos.name=Windows 10",
				"-Dos.version=10.0",
			}},
		}},
		{Complex: &model.ComplexArgument{
			Rules: []model.Rule{{Action: "allow", Os: &model.Os{Name: "windows"}}},
			Value: model.ArgumentValue{Single: "-XX:HeapDumpPath=MojangTricksIntelDriversForPerformance_javaw.exe_minecraft.exe.heapdump"},
		}},
		str("-Djava.library.path=${natives_directory}"),
		str("-Dminecraft.launcher.brand=${launcher_name}"),
		str("-Dminecraft.launcher.version=${launcher_version}"),
		str("-cp"),
		str("${classpath}"),
	}
}

// effectiveArgs splits the legacy minecraftArguments string on whitespace
// into literal game arguments and returns the legacy JVM prelude to
// prepend, or, when the layer already uses the modern arguments block,
// returns it unchanged with no extra prelude.
func effectiveArgs(vm *model.VersionMetadata) (game, jvm []model.VariableArgument) {
	if vm.MinecraftArguments != "" {
		for _, tok := range strings.Fields(vm.MinecraftArguments) {
			tok := tok
			game = append(game, model.VariableArgument{Simple: &tok})
		}
		return game, legacyJVMArgs()
	}
	if vm.Arguments != nil {
		return vm.Arguments.Game, vm.Arguments.Jvm
	}
	return nil, nil
}

// Merge folds chain — ordered root-first, leaf-last, as returned by
// ResolveChain — into a single MergedVersionMetadata per the leaf-to-root
// rules in the data model: id/main_class/java_version/assetIndex take the
// deepest (child) value when present; downloads.client takes the
// shallowest (parent/root) value when present, since only the root
// vanilla layer usually declares it; libraries are concatenated
// child-first for first-occurrence dedup by the library planner;
// hierarchy_ids lists every id leaf-first for the launcher's client-jar
// fallback lookup. Arguments are folded separately, root-to-leaf, since a
// legacy minecraftArguments layer replaces the accumulated
// arguments.game outright instead of extending it — see mergeArguments.
func Merge(chain []*model.VersionMetadata) model.MergedVersionMetadata {
	if len(chain) == 0 {
		return model.MergedVersionMetadata{}
	}

	leaf := chain[len(chain)-1]
	acc := model.MergedVersionMetadata{
		ID:           leaf.ID,
		MainClass:    leaf.MainClass,
		Arguments:    mergeArguments(chain),
		Libraries:    append([]model.Library(nil), leaf.Libraries...),
		AssetIndex:   leaf.AssetIndex,
		Assets:       leaf.Assets,
		Downloads:    leaf.Downloads,
		JavaVersion:  leaf.JavaVersion,
		HierarchyIDs: []string{leaf.ID},
	}

	for i := len(chain) - 2; i >= 0; i-- {
		parent := chain[i]

		acc.Libraries = append(acc.Libraries, parent.Libraries...)
		acc.HierarchyIDs = append(acc.HierarchyIDs, parent.ID)

		if acc.AssetIndex == nil {
			acc.AssetIndex = parent.AssetIndex
		}
		if acc.Assets == "" {
			acc.Assets = parent.Assets
		}
		if acc.JavaVersion == nil {
			acc.JavaVersion = parent.JavaVersion
		}
		// downloads.client: parent wins whenever the parent declares one.
		if parent.Downloads != nil && parent.Downloads.Client != nil {
			acc.Downloads = parent.Downloads
		}
	}

	return acc
}

// mergeArguments folds chain's argument lists root-to-leaf. jvm always
// extends (parent-then-child concatenation); game extends the same way
// for layers using the modern arguments block, but a layer declaring the
// legacy minecraftArguments string replaces the accumulated game list
// outright — matching merged_version_metadata.rs's full overwrite
// (`parent_metadata.arguments.game = arguments.game`) rather than
// prepending ancestors underneath it.
func mergeArguments(chain []*model.VersionMetadata) model.Arguments {
	var game, jvm []model.VariableArgument
	for _, layer := range chain {
		g, j := effectiveArgs(layer)
		if layer.MinecraftArguments != "" {
			game = append([]model.VariableArgument(nil), g...)
		} else {
			game = append(append([]model.VariableArgument(nil), game...), g...)
		}
		jvm = append(append([]model.VariableArgument(nil), jvm...), j...)
	}
	return model.Arguments{Game: game, Jvm: jvm}
}
