package formats

// DefaultScene is the built-in demo scene: a textured globe lit by one
// point light. The dice cubes are kept as commented-out records.
const DefaultScene = `c,myCamera,perspective,5,5,5,0,0,0,0,1,0;
l,myLight,point,0,5,0,2,2,2;
// p,unitCube,cube;
p,unitSphere,sphere,3,3;
m,redDiceMat,0.3,0,0,0.7,0,0,1,1,1,15,dice.jpg;
m,grnDiceMat,0,0.3,0,0,0.7,0,1,1,1,15,dice.jpg;
m,bluDiceMat,0,0,0.3,0,0,0.7,1,1,1,15,dice.jpg;
m,globeMat,0.3,0.3,0.3,0.7,0.7,0.7,1,1,1,5,globe.jpg;
// o,rd,unitCube,redDiceMat;
// o,gd,unitCube,grnDiceMat;
// o,bd,unitCube,bluDiceMat;
o,gl,unitSphere,globeMat;
X,rd,Rz,75;X,rd,Rx,90;X,rd,S,0.5,0.5,0.5;X,rd,T,-1,0,2;
X,gd,Ry,45;X,gd,S,0.5,0.5,0.5;X,gd,T,2,0,2;
X,bd,S,0.5,0.5,0.5;X,bd,Rx,90;X,bd,T,2,0,-1;
X,gl,S,1.5,1.5,1.5;X,gl,Rx,90;X,gl,Ry,-150;X,gl,T,0,1.5,0;
`
